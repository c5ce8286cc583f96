package models

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID sinh định danh 24 ký tự hex (12 byte ngẫu nhiên)
func NewID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// IsValidID kiểm tra chuỗi có đúng dạng token 24-hex không
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}
