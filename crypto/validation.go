// Package crypto holds the structural checks applied to client-side encrypted
// envelopes. The server never decrypts and never sees key material; this is a
// shape check that rejects obviously malformed input before it is stored.
package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	minIVLength  = 16
	minTagLength = 16
)

// ValidateEnvelope parses an opaque envelope and verifies it carries the
// fields of an authenticated-encryption payload: a version marker "v", an
// initialization vector "iv", ciphertext "ct" and an authentication tag "tag".
// Well-formed-but-meaningless ciphertext always passes; the check is purely
// structural and idempotent.
func ValidateEnvelope(raw string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}

	if _, ok := fields["v"]; !ok {
		return errors.New("missing 'v' (version) field")
	}
	if _, ok := fields["iv"]; !ok {
		return errors.New("missing 'iv' (initialization vector) field")
	}
	if _, ok := fields["ct"]; !ok {
		return errors.New("missing 'ct' (ciphertext) field")
	}
	if _, ok := fields["tag"]; !ok {
		return errors.New("missing 'tag' (authentication tag) field")
	}

	iv, err := stringField(fields, "iv")
	if err != nil {
		return err
	}
	if len(iv) < minIVLength {
		return errors.New("IV too short")
	}

	ct, err := stringField(fields, "ct")
	if err != nil {
		return err
	}
	if ct == "" {
		return errors.New("ciphertext cannot be empty")
	}

	tag, err := stringField(fields, "tag")
	if err != nil {
		return err
	}
	if len(tag) < minTagLength {
		return errors.New("tag too short")
	}

	return nil
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	var s string
	if err := json.Unmarshal(fields[name], &s); err != nil {
		return "", fmt.Errorf("'%s' must be a string", name)
	}
	return s, nil
}
