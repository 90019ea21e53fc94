package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const recordFormatVersionV1 = 1

// ErrCorruptRecord is returned when a stored session blob cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt session record")

func writeString(buf *bytes.Buffer, field, value string) error {
	if len(value) > 255 {
		return errors.New(field + " too long")
	}
	buf.WriteByte(byte(len(value)))
	buf.WriteString(value)
	return nil
}

func readString(reader *bytes.Reader) (string, error) {
	length, err := reader.ReadByte()
	if err != nil {
		return "", ErrCorruptRecord
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", ErrCorruptRecord
	}
	return string(raw), nil
}

// Encode serializes a [Record] into the versioned binary wire format. The
// token itself is not part of the payload; it lives in the Redis key.
func Encode(r *Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordFormatVersionV1)

	if err := writeString(&buf, "userID", r.UserID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "role", r.Role); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "privilegeLevel", r.PrivilegeLevel); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "clientIP", r.ClientIP); err != nil {
		return nil, err
	}

	buf.Write(r.UAFingerprint[:])
	buf.WriteByte(r.Flags)

	if err := binary.Write(&buf, binary.BigEndian, r.RequestCount); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.LastActivityAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.LastRotatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a stored blob back into a [Record]. The caller is expected
// to fill in Token from the key the blob was loaded under.
func Decode(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrCorruptRecord
	}
	if version != recordFormatVersionV1 {
		return nil, ErrCorruptRecord
	}

	r := &Record{}

	if r.UserID, err = readString(reader); err != nil {
		return nil, err
	}
	if r.Role, err = readString(reader); err != nil {
		return nil, err
	}
	if r.PrivilegeLevel, err = readString(reader); err != nil {
		return nil, err
	}
	if r.ClientIP, err = readString(reader); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(reader, r.UAFingerprint[:]); err != nil {
		return nil, ErrCorruptRecord
	}

	flags, err := reader.ReadByte()
	if err != nil {
		return nil, ErrCorruptRecord
	}
	r.Flags = flags

	if err := binary.Read(reader, binary.BigEndian, &r.RequestCount); err != nil {
		return nil, ErrCorruptRecord
	}
	if err := binary.Read(reader, binary.BigEndian, &r.CreatedAt); err != nil {
		return nil, ErrCorruptRecord
	}
	if err := binary.Read(reader, binary.BigEndian, &r.LastActivityAt); err != nil {
		return nil, ErrCorruptRecord
	}
	if err := binary.Read(reader, binary.BigEndian, &r.LastRotatedAt); err != nil {
		return nil, ErrCorruptRecord
	}

	return r, nil
}
