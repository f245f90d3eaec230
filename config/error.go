package config

import (
	"errors"
	"fmt"
)

var (
	ErrDumpFailed     = errors.New("dump failed")
	ErrMergeFailed    = errors.New("merge failed")
	ErrConfigKey      = errors.New("config key error")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrNoConfigSource = errors.New("no config source provided")
	ErrLoadingConfig  = errors.New("loading config failed")
	ErrValueInvalid   = errors.New("value invalid")
)

type ErrKeyValueInvalid struct {
	key    string
	value  interface{}
	nested error
}

func (v *ErrKeyValueInvalid) Error() string {
	return fmt.Sprintf("invalid value: '%v' for key %s", v.value, v.key)
}

func (v *ErrKeyValueInvalid) Unwrap() error {
	if v.nested != nil {
		return errors.Join(ErrValueInvalid, v.nested)
	}
	return ErrValueInvalid
}

type ErrKeyInStore struct {
	key string
}

func (k *ErrKeyInStore) Error() string {
	return "key already in store: " + k.key
}

func (k *ErrKeyInStore) Unwrap() error {
	return ErrConfigKey
}

type ErrKeyNotFound struct {
	key string
}

func (k *ErrKeyNotFound) Error() string {
	return "key not in store: " + k.key
}

func (k *ErrKeyNotFound) Unwrap() error {
	return ErrConfigKey
}

type ErrKeyInvalid struct {
	key    string
	nested error
}

func (k *ErrKeyInvalid) Error() string {
	if k.nested != nil {
		return fmt.Sprintf("invalid key '%s': %s", k.key, k.nested)
	}
	return fmt.Sprintf("invalid key '%s'", k.key)
}

func (k *ErrKeyInvalid) Unwrap() error {
	return ErrConfigKey
}

type KeyCharInvalid struct {
	key  string
	char rune
}

func (k *KeyCharInvalid) Error() string {
	return fmt.Sprintf("invalid character in key: %s (%s)", k.key, string(k.char))
}

func (k *KeyCharInvalid) Unwrap() error {
	return ErrValueInvalid
}

type ErrKeyAmbiguous struct {
	key string
}

func (e *ErrKeyAmbiguous) Error() string {
	return "key is ambiguous: " + e.key
}

func (e *ErrKeyAmbiguous) Unwrap() error {
	return ErrConfigKey
}

type ErrValueMismatch struct {
	key      string
	expected interface{}
	actual   interface{}
}

func (v *ErrValueMismatch) Error() string {
	return fmt.Sprintf("value mismatch: %s (%v != %v)", v.key, v.expected, v.actual)
}

func (v *ErrValueMismatch) Unwrap() error {
	return ErrValueInvalid
}

// ErrFieldType is returned by the typed getters when a value does not parse.
type ErrFieldType struct {
	key  string
	kind string
}

func (f *ErrFieldType) Error() string {
	return fmt.Sprintf("field is not %s: %s", f.kind, f.key)
}

func (f *ErrFieldType) Unwrap() error {
	return ErrTypeMismatch
}

type ErrDumpToFile struct {
	file   string
	reason error
}

func (c *ErrDumpToFile) Error() string {
	return "writing config to file " + c.file + " failed: " + c.reason.Error()
}

func (c *ErrDumpToFile) Unwrap() error {
	return ErrDumpFailed
}

type ErrLoadSource struct {
	source string
	nested error
}

func (e *ErrLoadSource) Error() string {
	return "error loading config from " + e.source + ": " + e.nested.Error()
}

func (e *ErrLoadSource) Unwrap() []error {
	return []error{ErrLoadingConfig, e.nested}
}
