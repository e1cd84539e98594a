// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gtx

import (
	"github.com/bitmark-inc/gtxclient/account"
	"github.com/bitmark-inc/gtxclient/codec"
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/gtv"
)

// legacy layout, a fixed schema rather than a generic value:
//
//   SEQUENCE {
//     SEQUENCE {
//       OCTET STRING                      blockchain RID
//       SEQUENCE OF SEQUENCE {            operations
//         UTF8String                        name
//         SEQUENCE OF <wrapped value>       arguments
//       }
//       SEQUENCE OF OCTET STRING          signers
//     }
//     SEQUENCE OF OCTET STRING            signatures
//   }

// EncodeLegacy - the wire bytes in the legacy sequence form
func (s *SignedTransaction) EncodeLegacy() ([]byte, error) {
	w := codec.NewWriter()
	w.PushSequence()
	w.PushSequence()

	w.WriteOctetString(s.blockchainRID)

	w.PushSequence()
	for _, op := range s.operations {
		w.PushSequence()
		if err := w.WriteUTF8String(op.Name); nil != err {
			return nil, err
		}
		w.PushSequence()
		for _, arg := range op.Args {
			if err := gtv.Write(w, arg, codec.Wrapped); nil != err {
				return nil, err
			}
		}
		if err := w.PopSequence(); nil != err {
			return nil, err
		}
		if err := w.PopSequence(); nil != err {
			return nil, err
		}
	}
	if err := w.PopSequence(); nil != err {
		return nil, err
	}

	w.PushSequence()
	for _, publicKey := range s.signers {
		w.WriteOctetString(publicKey.Bytes())
	}
	if err := w.PopSequence(); nil != err {
		return nil, err
	}

	// end of body
	if err := w.PopSequence(); nil != err {
		return nil, err
	}

	w.PushSequence()
	for _, signature := range s.Signatures() {
		w.WriteOctetString(signature)
	}
	if err := w.PopSequence(); nil != err {
		return nil, err
	}

	if err := w.PopSequence(); nil != err {
		return nil, err
	}
	return w.Bytes()
}

func decodeLegacy(data []byte) ([]byte, []Operation, []account.PublicKey, []account.Signature, error) {
	r := codec.NewReader(data)
	outer, err := r.ReadSequence()
	if nil != err {
		return nil, nil, nil, nil, err
	}
	if !r.Empty() {
		return nil, nil, nil, nil, fault.ErrTrailingData
	}

	body, err := outer.ReadSequence()
	if nil != err {
		return nil, nil, nil, nil, err
	}

	blockchainRID, err := body.ReadOctetString()
	if nil != err {
		return nil, nil, nil, nil, err
	}

	opList, err := body.ReadSequence()
	if nil != err {
		return nil, nil, nil, nil, err
	}
	operations := []Operation{}
	for !opList.Empty() {
		op, err := readLegacyOperation(opList)
		if nil != err {
			return nil, nil, nil, nil, err
		}
		operations = append(operations, op)
	}

	keyList, err := body.ReadSequence()
	if nil != err {
		return nil, nil, nil, nil, err
	}
	signers := []account.PublicKey{}
	for !keyList.Empty() {
		b, err := keyList.ReadOctetString()
		if nil != err {
			return nil, nil, nil, nil, err
		}
		k, err := account.PublicKeyFromBytes(b)
		if nil != err {
			return nil, nil, nil, nil, err
		}
		signers = append(signers, k)
	}
	if !body.Empty() {
		return nil, nil, nil, nil, fault.ErrTrailingData
	}

	signatureList, err := outer.ReadSequence()
	if nil != err {
		return nil, nil, nil, nil, err
	}
	signatures := []account.Signature{}
	for !signatureList.Empty() {
		b, err := signatureList.ReadOctetString()
		if nil != err {
			return nil, nil, nil, nil, err
		}
		s, err := account.SignatureFromBytes(b)
		if nil != err {
			return nil, nil, nil, nil, err
		}
		signatures = append(signatures, s)
	}
	if !outer.Empty() {
		return nil, nil, nil, nil, fault.ErrTrailingData
	}

	return blockchainRID, operations, signers, signatures, nil
}

func readLegacyOperation(r *codec.Reader) (Operation, error) {
	op, err := r.ReadSequence()
	if nil != err {
		return Operation{}, err
	}
	name, err := op.ReadUTF8String()
	if nil != err {
		return Operation{}, err
	}
	if "" == name {
		return Operation{}, fault.ErrMissingOperationName
	}
	argList, err := op.ReadSequence()
	if nil != err {
		return Operation{}, err
	}
	args := gtv.Array{}
	for !argList.Empty() {
		v, err := gtv.Read(argList)
		if nil != err {
			return Operation{}, err
		}
		args = append(args, v)
	}
	if !op.Empty() {
		return Operation{}, fault.ErrTrailingData
	}
	return Operation{Name: name, Args: args}, nil
}
