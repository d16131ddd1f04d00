package utility

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var errorNoHashableFields = errors.New("no hashable fields found")

// Hash - calculate the hash of the object
func Hash(obj interface{}) (string, error) {
	hashable := make(map[string]interface{})

	// Reflect the object and dereference the pointer if any
	val := reflect.ValueOf(obj)
	val = reflect.Indirect(val)
	typ := val.Type()

	// Collect the values of the fields tagged with "hash"
	hasFields := false
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		_, ok := field.Tag.Lookup("hash") // Presence of the tag matters, not its value
		if ok {
			fieldValue := val.Field(i)
			hashable[field.Name] = fieldValue.Interface()
			hasFields = true
		}
	}

	if !hasFields {
		return "", errorNoHashableFields
	}

	// Sort the keys for a stable serialization order
	keys := make([]string, 0, len(hashable))
	for k := range hashable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Serialize the selected fields with gob
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	for _, key := range keys {
		err := enc.Encode(hashable[key])
		if err != nil {
			return "", fmt.Errorf("failed to encode hashable fields: %w", err)
		}
	}

	hash := sha256.Sum256(buf.Bytes())

	return fmt.Sprintf("%x", hash), nil
}

// HashText - calculate the sha256 hash of a text string
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", hash)
}
