package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"study-assistant/internal/models"
)

const (
	DefaultChunkSize    = 1000 // characters
	DefaultChunkOverlap = 200  // characters
)

// Chunker splits document text into overlapping windows on newline boundaries.
type Chunker struct {
	size      int
	overlap   int
	separator string
}

func New(size, overlap int) *Chunker {
	size, overlap = normalize(size, overlap)
	return &Chunker{size: size, overlap: overlap, separator: models.ChunkSeparator}
}

func (c *Chunker) Size() int    { return c.size }
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text and numbers the chunks from 1.
func (c *Chunker) Chunk(text string) []models.Chunk {
	parts := split(text, c.separator, c.size, c.overlap)
	chunks := make([]models.Chunk, 0, len(parts))
	for i, p := range parts {
		chunks = append(chunks, models.Chunk{ChunkID: i + 1, Content: p})
	}
	return chunks
}

// Split is Chunk without the chunk metadata, using the newline separator.
func Split(text string, size, overlap int) []string {
	size, overlap = normalize(size, overlap)
	return split(text, models.ChunkSeparator, size, overlap)
}

func normalize(size, overlap int) (int, int) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return size, overlap
}

func split(text, sep string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var pieces []string
	for _, p := range strings.Split(text, sep) {
		if strings.TrimSpace(p) != "" {
			pieces = append(pieces, p)
		}
	}
	return merge(pieces, sep, size, overlap)
}

// merge packs pieces into windows of at most size characters. After a window is emitted the
// pieces at its front are dropped until what is left fits in overlap; the remainder opens the
// next window. A piece longer than size becomes a window of its own.
func merge(pieces []string, sep string, size, overlap int) []string {
	sepLen := utf8.RuneCountInString(sep)
	var (
		chunks  []string
		current []string
		total   int
	)

	joinLen := func() int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n+joinLen() > size {
			if total > size {
				log.Warn().Int("length", total).Int("chunk_size", size).Msg("Emitting oversized chunk")
			}
			if len(current) > 0 {
				if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
					chunks = append(chunks, chunk)
				}
				for total > overlap || (total > 0 && total+n+joinLen() > size) {
					drop := utf8.RuneCountInString(current[0])
					if len(current) > 1 {
						drop += sepLen
					}
					total -= drop
					current = current[1:]
				}
			}
		}
		total += n + joinLen()
		current = append(current, p)
	}

	if chunk := strings.TrimSpace(strings.Join(current, sep)); chunk != "" {
		if total > size {
			log.Warn().Int("length", total).Int("chunk_size", size).Msg("Emitting oversized chunk")
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
