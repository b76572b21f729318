package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	// CurrentSchemaVersion is the encoding version written by Encode.
	CurrentSchemaVersion uint8 = 2

	schemaVersionV1 uint8 = 1
	schemaVersionV2 uint8 = 2
)

// ErrRecordCorrupt is returned when a stored record blob cannot be decoded.
var ErrRecordCorrupt = errors.New("session record corrupt")

// Encode serializes a [Record] into the current binary schema.
// Layout (v2): version, userID, role, industrySlug (length-prefixed strings),
// createdAt, expiresAt (big-endian int64).
func Encode(r *Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(CurrentSchemaVersion)

	for _, field := range []struct {
		name  string
		value string
	}{
		{"userID", r.UserID},
		{"role", r.Role},
		{"industrySlug", r.IndustrySlug},
	} {
		if len(field.value) > 255 {
			return nil, errors.New(field.name + " too long")
		}
		buf.WriteByte(byte(len(field.value)))
		buf.WriteString(field.value)
	}

	if err := binary.Write(&buf, binary.BigEndian, r.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a stored blob into a [Record]. v1 blobs (written before
// industry-scoped roles existed) decode with an empty IndustrySlug and keep
// their original SchemaVersion so the store can migrate them on read.
func Decode(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrRecordCorrupt
	}
	if version != schemaVersionV1 && version != schemaVersionV2 {
		return nil, ErrRecordCorrupt
	}

	rec := &Record{SchemaVersion: version}

	if rec.UserID, err = readString(reader); err != nil {
		return nil, ErrRecordCorrupt
	}
	if rec.Role, err = readString(reader); err != nil {
		return nil, ErrRecordCorrupt
	}
	if version >= schemaVersionV2 {
		if rec.IndustrySlug, err = readString(reader); err != nil {
			return nil, ErrRecordCorrupt
		}
	}

	if err := binary.Read(reader, binary.BigEndian, &rec.CreatedAt); err != nil {
		return nil, ErrRecordCorrupt
	}
	if err := binary.Read(reader, binary.BigEndian, &rec.ExpiresAt); err != nil {
		return nil, ErrRecordCorrupt
	}

	return rec, nil
}

func readString(reader *bytes.Reader) (string, error) {
	length, err := reader.ReadByte()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}

	out := make([]byte, length)
	if _, err := io.ReadFull(reader, out); err != nil {
		return "", err
	}
	return string(out), nil
}
