package inmemory

// Document is one incoming document to be matched against the registered
// queries.
type Document struct {
	// ID is the caller's identifier for the document. Match results refer to
	// documents by their index in the batch instead.
	ID string
	// Fields maps a field name to its text.
	Fields map[string]string
}

// fieldIndex holds the analyzed tokens of one field of one document.
type fieldIndex struct {
	tokens   []Token
	postings map[string][]int // term -> positions, ascending
}

func newFieldIndex(text string) *fieldIndex {
	fi := &fieldIndex{
		tokens:   Analyze(text),
		postings: make(map[string][]int),
	}
	for _, tok := range fi.tokens {
		fi.postings[tok.Term] = append(fi.postings[tok.Term], tok.Position)
	}
	return fi
}

// termAt reports whether the token at position pos is term.
func (fi *fieldIndex) termAt(pos int, term string) bool {
	return pos >= 0 && pos < len(fi.tokens) && fi.tokens[pos].Term == term
}

// batch is a small in-memory index over the documents of one Match call.
// It is built once and only read afterwards, so passes share it freely.
type batch struct {
	docs        []map[string]*fieldIndex
	docFreq     map[string]map[string]int // field -> term -> documents containing it
	totalLength map[string]int            // field -> sum of token counts
	fieldCount  map[string]int            // field -> documents having the field
}

func newBatch(docs []Document) *batch {
	b := &batch{
		docs:        make([]map[string]*fieldIndex, len(docs)),
		docFreq:     make(map[string]map[string]int),
		totalLength: make(map[string]int),
		fieldCount:  make(map[string]int),
	}

	for i, doc := range docs {
		fields := make(map[string]*fieldIndex, len(doc.Fields))
		for name, text := range doc.Fields {
			fi := newFieldIndex(text)
			fields[name] = fi

			b.totalLength[name] += len(fi.tokens)
			b.fieldCount[name]++
			df, ok := b.docFreq[name]
			if !ok {
				df = make(map[string]int)
				b.docFreq[name] = df
			}
			for term := range fi.postings {
				df[term]++
			}
		}
		b.docs[i] = fields
	}

	return b
}

func (b *batch) size() int {
	return len(b.docs)
}

func (b *batch) field(docID int, name string) (*fieldIndex, bool) {
	fi, ok := b.docs[docID][name]
	return fi, ok
}

func (b *batch) avgFieldLength(name string) float64 {
	n := b.fieldCount[name]
	if n == 0 {
		return 0
	}
	return float64(b.totalLength[name]) / float64(n)
}
