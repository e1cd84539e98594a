// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/gtxclient/fault"
	"github.com/bitmark-inc/gtxclient/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "." // same directory as the config file

	blockchainRIDLength = 32

	defaultJournalDirectory = "journal"
	defaultJournalName      = "submitted.leveldb"

	defaultSubmitRate  = 10
	defaultSubmitBurst = 5

	defaultLogDirectory = "log"
	defaultLogFile      = "gtxclient.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"session":         "info",
		logger.DefaultTag: "critical",
	}
)

// SubmitType - limits on transaction submission
type SubmitType struct {
	Rate  float64 `gluamapper:"rate" json:"rate"`
	Burst int     `gluamapper:"burst" json:"burst"`
}

// JournalType - where submitted transactions are recorded
type JournalType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - configuration file data
type Configuration struct {
	DataDirectory     string               `gluamapper:"data_directory" json:"data_directory"`
	BlockchainRID     string               `gluamapper:"blockchain_rid" json:"blockchain_rid"`
	MerkleHashVersion int                  `gluamapper:"merkle_hash_version" json:"merkle_hash_version"`
	Submit            SubmitType           `gluamapper:"submit" json:"submit"`
	Journal           JournalType          `gluamapper:"journal" json:"journal"`
	Logging           logger.Configuration `gluamapper:"logging" json:"logging"`
}

// Get - read decode and verify the configuration
//
// relative paths are resolved against the data directory and the
// journal and log directories are created if missing
func Get(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	// the file's levels are merged into this copy
	levels := make(map[string]string, len(defaultLogLevels))
	for tag, level := range defaultLogLevels {
		levels[tag] = level
	}

	options := &Configuration{
		DataDirectory: defaultDataDirectory,

		Submit: SubmitType{
			Rate:  defaultSubmitRate,
			Burst: defaultSubmitBurst,
		},

		Journal: JournalType{
			Directory: defaultJournalDirectory,
			Name:      defaultJournalName,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    levels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if err := options.validate(); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator
	for _, f := range []string{options.Journal.Name, options.Logging.File} {
		if !util.IsPlainName(f) {
			return nil, fmt.Errorf("Files: %q is not plain name", f)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Journal.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

func (c *Configuration) validate() error {
	if "" == c.BlockchainRID {
		return fault.ErrRequiredBlockchainRID
	}
	if _, err := util.DecodeHex(c.BlockchainRID, blockchainRIDLength); nil != err {
		return fault.ErrInvalidBlockchainRID
	}

	switch c.MerkleHashVersion {
	case 0, 1, 2:
	default:
		return fault.ErrInvalidHashVersion
	}

	if c.Submit.Rate < 0 || c.Submit.Burst < 0 {
		return fmt.Errorf("Submit: rate: %g  burst: %d must not be negative", c.Submit.Rate, c.Submit.Burst)
	}
	return nil
}

// BlockchainRIDBytes - the decoded blockchain RID
func (c *Configuration) BlockchainRIDBytes() []byte {
	b, _ := util.DecodeHex(c.BlockchainRID, blockchainRIDLength)
	return b
}

// JournalPath - the full path of the journal database
func (c *Configuration) JournalPath() string {
	return filepath.Join(c.Journal.Directory, c.Journal.Name)
}
