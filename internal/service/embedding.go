package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// PlanEmbedding returns a cheap deterministic embedding for plan discovery
// search, built from text length, vowel and consonant counts. Good enough to
// order candidates until a real embedding model is wired in.
func PlanEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return pgvector.NewVector([]float32{float32(len(text)), vowels, consonants})
}
