package chunk

// windowSplitter produces overlapping fixed-size windows over the
// document text, measured in characters (runes) so multi-byte text is
// never cut mid-sequence. Consecutive windows share exactly `overlap`
// characters; the last window may be shorter.
type windowSplitter struct {
	size    int
	overlap int
}

func (w *windowSplitter) Split(doc *Document) ([]Chunk, error) {
	runes := []rune(doc.Text)
	step := w.size - w.overlap

	var chunks []Chunk
	for start := 0; ; start += step {
		end := start + w.size
		if end > len(runes) {
			end = len(runes)
		}

		text := string(runes[start:end])
		chunks = append(chunks, Chunk{
			ID:         chunkID(doc.ID, len(chunks), text),
			DocumentID: doc.ID,
			Ordinal:    len(chunks),
			Text:       text,
		})

		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
