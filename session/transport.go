// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/bitmark-inc/gtxclient/merkle"
)

//go:generate mockgen -destination mocks/transport.go -package mocks github.com/bitmark-inc/gtxclient/session Transport

// Transport - the node connection, supplied by the caller
//
// failover and retry belong to the implementation, the session never
// retries
type Transport interface {
	Get(ctx context.Context, uri string) ([]byte, error)
	Post(ctx context.Context, uri string, body []byte) ([]byte, error)
	Delay(ctx context.Context, d time.Duration) error
}

// node routes
func featuresURI(blockchainRID []byte) string {
	return "/config/" + hex.EncodeToString(blockchainRID) + "/features"
}

func submitURI(blockchainRID []byte) string {
	return "/tx/" + hex.EncodeToString(blockchainRID)
}

func statusURI(blockchainRID []byte, rid merkle.Digest) string {
	return "/tx/" + hex.EncodeToString(blockchainRID) + "/" + rid.String() + "/status"
}

func queryURI(blockchainRID []byte) string {
	return "/query_gtv/" + hex.EncodeToString(blockchainRID)
}
