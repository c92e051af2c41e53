package journal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
)

func serializeObject[T any](data *T) ([]byte, error) {
	if data == nil {
		return nil, errors.New("cannot serialize nil object")
	}
	buffer := &bytes.Buffer{}
	encoder := gob.NewEncoder(buffer)
	err := encoder.Encode(data)
	return buffer.Bytes(), err
}

func deserializeObject[T any](input []byte) (*T, error) {
	output := new(T)
	decoder := gob.NewDecoder(bytes.NewBuffer(input))
	err := decoder.Decode(output)
	return output, err
}

// sequenceKey keeps the keys sorted in insertion order
func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
