// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtx

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// NopName - operation name of the no-operation, used to make otherwise
// identical transactions distinct
const NopName = "nop"

// Operation - a named call with its arguments
type Operation struct {
	Name string
	Args gtv.Array
}

// NewOperation - create an operation, converting native arguments to values
func NewOperation(name string, args ...interface{}) (Operation, error) {
	if "" == name {
		return Operation{}, fault.ErrMissingOperationName
	}
	values := make(gtv.Array, len(args))
	for i, arg := range args {
		v, err := gtv.FromNative(arg)
		if nil != err {
			return Operation{}, err
		}
		values[i] = v
	}
	return Operation{Name: name, Args: values}, nil
}

// Nop - a no-operation with one random 32 bit argument
func Nop() (Operation, error) {
	buffer := make([]byte, 4)
	if _, err := rand.Read(buffer); nil != err {
		return Operation{}, err
	}
	n := binary.BigEndian.Uint32(buffer)
	return Operation{Name: NopName, Args: gtv.Array{gtv.Integer(n)}}, nil
}

// IsNop - true for a no-operation
func (o Operation) IsNop() bool {
	return NopName == o.Name
}

// Equal - same name and arguments, any two no-operations are equal
func (o Operation) Equal(other Operation) bool {
	if o.IsNop() && other.IsNop() {
		return true
	}
	return o.Name == other.Name && gtv.Equal(o.Args, other.Args)
}

// ToGtv - the value form [name, [args…]]
func (o Operation) ToGtv() gtv.Value {
	args := o.Args
	if nil == args {
		args = gtv.Array{}
	}
	return gtv.Array{gtv.String(o.Name), args}
}

func operationFromGtv(value gtv.Value) (Operation, error) {
	a, ok := value.(gtv.Array)
	if !ok || 2 != len(a) {
		return Operation{}, fault.ErrNotATransaction
	}
	name, ok := a[0].(gtv.String)
	if !ok || "" == name {
		return Operation{}, fault.ErrNotATransaction
	}
	args, ok := a[1].(gtv.Array)
	if !ok {
		return Operation{}, fault.ErrNotATransaction
	}
	return Operation{Name: string(name), Args: args}, nil
}
