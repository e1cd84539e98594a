// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ArgumentError GenericError
type DecodeError GenericError
type ExistsError GenericError
type InvalidStateError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type StructuralError GenericError
type UnsupportedTypeError GenericError
type ValidationError GenericError

// common errors - keep in alphabetic order
var (
	ErrBlockchainRIDNotSet       = InvalidStateError("blockchain RID is not set")
	ErrConfigurationNotTable     = ArgumentError("configuration must return a table")
	ErrDepthExceeded             = StructuralError("maximum nesting depth exceeded")
	ErrDuplicateDictKey          = ArgumentError("duplicate dictionary key")
	ErrDuplicateTransaction      = ExistsError("transaction already submitted")
	ErrIncompleteSignatures      = ArgumentError("signature count does not match signer count")
	ErrIntegerOverflow           = DecodeError("integer does not fit in 64 bits")
	ErrInvalidBlockchainRID      = ArgumentError("blockchain RID must be 32 bytes")
	ErrInvalidDigestLength       = ArgumentError("digest length is invalid")
	ErrInvalidHashVersion        = ArgumentError("merkle hash version is invalid")
	ErrInvalidNullPayload        = DecodeError("null payload is invalid")
	ErrInvalidPrivateKey         = ArgumentError("private key is invalid")
	ErrInvalidPublicKey          = ArgumentError("public key is invalid")
	ErrInvalidSignatureLength    = ArgumentError("signature length is invalid")
	ErrInvalidUTF8               = DecodeError("string is not valid utf-8")
	ErrJournalClosed             = InvalidStateError("journal is closed")
	ErrMalformedLength           = DecodeError("length is malformed or exceeds input")
	ErrMissingOperationName      = ArgumentError("operation name is required")
	ErrNilValue                  = ArgumentError("value is nil")
	ErrNoSuchTransaction         = NotFoundError("transaction not found")
	ErrNonMinimalInteger         = DecodeError("integer encoding is not minimal")
	ErrNotAProof                 = DecodeError("value is not a proof tree")
	ErrNotATransaction           = DecodeError("value is not a transaction")
	ErrProofRootMismatch         = ValidationError("proof root does not match expected hash")
	ErrQueryArgumentsNotDict     = ArgumentError("query arguments must form a dictionary")
	ErrRateLimiting              = ProcessError("rate limit exceeded")
	ErrRequiredBlockchainRID     = ArgumentError("blockchain RID is required")
	ErrSignatureDoesNotMatch     = ValidationError("signature does not match any signer")
	ErrTrailingData              = DecodeError("trailing data after value")
	ErrTransactionRIDChanged     = InvalidStateError("transaction RID changed while adding a signature")
	ErrTransportRequired         = ArgumentError("transport is required")
	ErrTruncated                 = DecodeError("input is truncated")
	ErrUnbalancedSequence        = StructuralError("unbalanced sequence push/pop")
	ErrUnexpectedStatus          = ProcessError("node returned an unexpected status")
	ErrUnsupportedType           = UnsupportedTypeError("value has no GTV mapping")
	ErrZeroLengthIntegerEncoding = DecodeError("integer has no content bytes")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ArgumentError) Error() string        { return string(e) }
func (e DecodeError) Error() string          { return string(e) }
func (e ExistsError) Error() string          { return string(e) }
func (e InvalidStateError) Error() string    { return string(e) }
func (e NotFoundError) Error() string        { return string(e) }
func (e ProcessError) Error() string         { return string(e) }
func (e StructuralError) Error() string      { return string(e) }
func (e UnsupportedTypeError) Error() string { return string(e) }
func (e ValidationError) Error() string      { return string(e) }

// determine the class of an error
//
// errors wrapped with github.com/pkg/errors are unwrapped first
func IsErrArgument(e error) bool        { _, ok := errors.Cause(e).(ArgumentError); return ok }
func IsErrDecode(e error) bool          { _, ok := errors.Cause(e).(DecodeError); return ok }
func IsErrExists(e error) bool          { _, ok := errors.Cause(e).(ExistsError); return ok }
func IsErrInvalidState(e error) bool    { _, ok := errors.Cause(e).(InvalidStateError); return ok }
func IsErrNotFound(e error) bool        { _, ok := errors.Cause(e).(NotFoundError); return ok }
func IsErrProcess(e error) bool         { _, ok := errors.Cause(e).(ProcessError); return ok }
func IsErrStructural(e error) bool      { _, ok := errors.Cause(e).(StructuralError); return ok }
func IsErrUnsupportedType(e error) bool { _, ok := errors.Cause(e).(UnsupportedTypeError); return ok }
func IsErrValidation(e error) bool      { _, ok := errors.Cause(e).(ValidationError); return ok }

// TagMismatch - decode error naming the expected and actual tags
func TagMismatch(expected byte, actual byte) error {
	return DecodeError(fmt.Sprintf("tag mismatch: expected: 0x%02x  actual: 0x%02x", expected, actual))
}

// UnexpectedTag - decode error for a tag with no meaning at this point
func UnexpectedTag(actual byte) error {
	return DecodeError(fmt.Sprintf("unexpected tag: 0x%02x", actual))
}

// Unsupported - unsupported type error naming the host type
func Unsupported(value interface{}) error {
	return UnsupportedTypeError(fmt.Sprintf("%s: %T", ErrUnsupportedType, value))
}

// PathMismatch - structural error for a disclosure path that does not
// fit the shape of the value
func PathMismatch(format string, arguments ...interface{}) error {
	return StructuralError("disclosure path mismatch: " + fmt.Sprintf(format, arguments...))
}

// UnknownSigner - argument error naming a public key that is not a
// registered signer
func UnknownSigner(publicKey fmt.Stringer) error {
	return ArgumentError(fmt.Sprintf("public key: %s is not a signer", publicKey))
}

// AlreadySigned - argument error naming a public key that already has
// a signature
func AlreadySigned(publicKey fmt.Stringer) error {
	return ArgumentError(fmt.Sprintf("public key: %s already signed", publicKey))
}

// DuplicateSigner - argument error naming a public key registered twice
func DuplicateSigner(publicKey fmt.Stringer) error {
	return ArgumentError(fmt.Sprintf("public key: %s is already a signer", publicKey))
}

// InvalidSignatureFor - validation error naming the key whose
// signature failed
func InvalidSignatureFor(publicKey fmt.Stringer) error {
	return ValidationError(fmt.Sprintf("signature for public key: %s does not verify", publicKey))
}
