package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// ID is a relational primary key. Documents store it as its decimal string.
type ID uint

// ParseID accepts a base-10 positive integer and nothing else: no sign, no
// surrounding spaces, no zero.
func ParseID(s string) (ID, error) {
	if s == "" {
		return 0, ErrInvalidID
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidID
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 || uint64(uint(n)) != n {
		return 0, ErrInvalidID
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id ID) Uint() uint {
	return uint(id)
}

// IDText is an identifier as received in a request body. JSON numbers and
// strings are both kept as text so ParseID sees exactly what the client sent.
type IDText string

func (t *IDText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = IDText(s)
	default:
		*t = IDText(b)
	}
	return nil
}

// Parse validates the text with ParseID.
func (t IDText) Parse() (ID, error) {
	return ParseID(string(t))
}
