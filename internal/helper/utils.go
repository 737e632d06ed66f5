package helper

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/minio/highwayhash"
	"github.com/rs/zerolog/log"
)

var hashKey = []byte("study-assistant-document-key-v01")

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %v", err)
	}
	return id.String(), nil
}

// pretty print
func PrettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Warn().Msg("Error pretty printing")
	}
	fmt.Println(string(b))
}

// DocumentKey identifies a document by its text. Equal text gives an equal key.
func DocumentKey(text string) (string, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return "doc-" + hex.EncodeToString(h.Sum(nil)), nil
}

// TruncateText cuts text to at most maxChars characters, preferring the last newline before
// the limit so the cut does not land mid-line.
func TruncateText(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxChars])
	if i := strings.LastIndex(cut, "\n"); i > len(cut)/2 {
		cut = cut[:i]
	}

	log.Warn().
		Int("chars", len(runes)).
		Int("max_chars", maxChars).
		Msg("Truncating source text to fit the prompt")
	return cut
}
