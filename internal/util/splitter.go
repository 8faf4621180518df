package util

import "strings"

// Splitter breaks text into overlapping segments, preferring to cut at the
// earliest separator in the preference list that keeps a segment under the
// size bound. Sizes are measured in runes.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func DefaultSeparators() []string {
	return []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}
}

func NewSplitter(chunkSize, overlap int, separators []string) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	if len(separators) == 0 {
		separators = DefaultSeparators()
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap, separators: separators}
}

func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, seps []string) []string {
	sep, rest := pickSeparator(text, seps)
	if sep == "" {
		return s.windows(text)
	}

	out := make([]string, 0)
	good := make([]string, 0)
	for _, piece := range strings.SplitAfter(text, sep) {
		if piece == "" {
			continue
		}
		if len([]rune(piece)) <= s.chunkSize {
			good = append(good, piece)
			continue
		}
		// Oversized piece: flush what fits, then retry with finer separators.
		out = append(out, s.merge(good)...)
		good = good[:0]
		out = append(out, s.split(piece, rest)...)
	}
	return append(out, s.merge(good)...)
}

// merge greedily packs pieces into segments up to chunkSize, carrying the
// configured overlap from the tail of the previous segment.
func (s *Splitter) merge(pieces []string) []string {
	out := make([]string, 0, len(pieces))
	current := make([]string, 0)
	total := 0
	for _, p := range pieces {
		l := len([]rune(p))
		if total+l > s.chunkSize && len(current) > 0 {
			if seg := strings.TrimSpace(strings.Join(current, "")); seg != "" {
				out = append(out, seg)
			}
			for len(current) > 0 && (total > s.overlap || total+l > s.chunkSize) {
				total -= len([]rune(current[0]))
				current = current[1:]
			}
		}
		current = append(current, p)
		total += l
	}
	if seg := strings.TrimSpace(strings.Join(current, "")); seg != "" {
		out = append(out, seg)
	}
	return out
}

// windows is the empty-separator fallback: fixed rune windows with overlap.
func (s *Splitter) windows(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap
	if step <= 0 {
		step = s.chunkSize
	}
	out := make([]string, 0)
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if part := strings.TrimSpace(string(runes[i:end])); part != "" {
			out = append(out, part)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

func pickSeparator(text string, seps []string) (string, []string) {
	for i, cand := range seps {
		if cand == "" {
			return "", nil
		}
		if strings.Contains(text, cand) {
			return cand, seps[i+1:]
		}
	}
	return "", nil
}
