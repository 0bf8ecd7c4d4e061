package authgate

import (
	"bytes"
	"errors"
	"io"
)

// Cached authorization entries are stored in Redis as a compact binary
// record: a version byte, then the role set, then the permission set, each
// as a uint16 count followed by length-prefixed strings. The format is
// append-only: new versions add fields but never reinterpret old ones.
const cacheRecordVersionV1 = 1

const maxCacheSetLen = 65535

var errCacheRecordCorrupt = errors.New("cached authorization record corrupt")

func encodeCacheRecord(info *CachedAuthorization) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(cacheRecordVersionV1)

	if err := writeStringSet(&buf, info.Roles); err != nil {
		return nil, err
	}
	if err := writeStringSet(&buf, info.Permissions); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeCacheRecord(data []byte) (*CachedAuthorization, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, errCacheRecordCorrupt
	}
	if version != cacheRecordVersionV1 {
		return nil, errCacheRecordCorrupt
	}

	roles, err := readStringSet(reader)
	if err != nil {
		return nil, err
	}
	permissions, err := readStringSet(reader)
	if err != nil {
		return nil, err
	}

	return &CachedAuthorization{Roles: roles, Permissions: permissions}, nil
}

func writeStringSet(buf *bytes.Buffer, set []string) error {
	if len(set) > maxCacheSetLen {
		return errors.New("authorization set too large")
	}
	buf.WriteByte(byte(len(set) >> 8))
	buf.WriteByte(byte(len(set)))
	for _, v := range set {
		if len(v) > 255 {
			return errors.New("authorization name too long")
		}
		buf.WriteByte(byte(len(v)))
		buf.WriteString(v)
	}
	return nil
}

func readStringSet(reader *bytes.Reader) ([]string, error) {
	hi, err := reader.ReadByte()
	if err != nil {
		return nil, errCacheRecordCorrupt
	}
	lo, err := reader.ReadByte()
	if err != nil {
		return nil, errCacheRecordCorrupt
	}
	count := int(hi)<<8 | int(lo)
	if count == 0 {
		return nil, nil
	}
	if count > reader.Len() {
		// Each entry takes at least its length byte.
		return nil, errCacheRecordCorrupt
	}

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n, err := reader.ReadByte()
		if err != nil {
			return nil, errCacheRecordCorrupt
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(reader, name); err != nil {
			return nil, errCacheRecordCorrupt
		}
		out = append(out, string(name))
	}
	return out, nil
}
