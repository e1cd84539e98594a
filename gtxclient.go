// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package gtxclient - a client for building, signing and submitting
// GTX transactions to a blockchain node
//
// Open reads a Lua configuration file, starts logging, opens the
// journal of submitted transactions and returns a session bound to
// the configured blockchain.  The node is reached through a caller
// supplied session.Transport.
package gtxclient

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/gtxclient/configuration"
	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/merkle"
	"github.com/bitmark-inc/gtxclient/session"
	"github.com/bitmark-inc/gtxclient/storage"
)

// Client - an open configuration
type Client struct {
	sync.Mutex
	log     *logger.L
	journal *storage.Journal
	session *session.Session
	closed  bool
}

// Open - read the configuration file and set up logging, journal and session
func Open(configurationFileName string, transport session.Transport) (*Client, error) {
	if nil == transport {
		return nil, fault.ErrTransportRequired
	}

	conf, err := configuration.Get(configurationFileName)
	if nil != err {
		return nil, err
	}

	if err := logger.Initialise(conf.Logging); nil != err {
		return nil, err
	}

	log := logger.New("gtxclient")
	log.Infof("blockchain RID: %s", conf.BlockchainRID)

	journal, err := storage.Open(conf.JournalPath())
	if nil != err {
		log.Criticalf("journal: %s  error: %s", conf.JournalPath(), err)
		logger.Finalise()
		return nil, err
	}

	options := session.Options{
		BlockchainRID: conf.BlockchainRIDBytes(),
		HashVersion:   merkle.HashVersion(conf.MerkleHashVersion),
		SubmitRate:    conf.Submit.Rate,
		SubmitBurst:   conf.Submit.Burst,
	}
	s, err := session.New(logger.New("session"), options, transport, journal)
	if nil != err {
		log.Criticalf("session error: %s", err)
		journal.Close()
		logger.Finalise()
		return nil, err
	}

	return &Client{
		log:     log,
		journal: journal,
		session: s,
	}, nil
}

// Session - the session for the configured blockchain
func (c *Client) Session() *session.Session {
	return c.session
}

// Journal - the record of submitted transactions
func (c *Client) Journal() *storage.Journal {
	return c.journal
}

// Close - close the journal and stop logging
func (c *Client) Close() error {
	c.Lock()
	defer c.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	c.log.Info("shutting down…")
	err := c.journal.Close()
	logger.Finalise()
	return err
}
