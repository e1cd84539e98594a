// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/gtxclient/account"
)

const (
	dir         = "testing"
	LogCategory = "testing"

	BlockchainRIDHex = "0102030405060708091011121314151617181920212223242526272829303132"
)

// well known secp256k1 keys for tests
var (
	BlockchainRID []byte
	KeyPair1      *account.KeyPair
	KeyPair2      *account.KeyPair
	KeyPair3      *account.KeyPair
)

func init() {
	var err error
	BlockchainRID, err = hex.DecodeString(BlockchainRIDHex)
	if nil != err {
		panic(err)
	}

	KeyPair1 = mustKeyPair("0000000000000000000000000000000000000000000000000000000000000001")
	KeyPair2 = mustKeyPair("0000000000000000000000000000000000000000000000000000000000000002")
	KeyPair3 = mustKeyPair("0000000000000000000000000000000000000000000000000000000000000003")
}

func mustKeyPair(privateKey string) *account.KeyPair {
	keyPair, err := account.KeyPairFromHex(privateKey)
	if nil != err {
		panic(err)
	}
	return keyPair
}

// SetupTestLogger - log to a scratch directory, critical only
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
