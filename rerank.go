package aisuite

import (
	"log/slog"
	"strconv"
)

// rerankLogger receives the malformed-input warnings from the rerank path.
// Swappable so callers (and tests) can route warnings into their own
// handler.
var rerankLogger = slog.Default()

// SetRerankLogger replaces the logger used for rerank warnings.
func SetRerankLogger(l *slog.Logger) {
	rerankLogger = l
}

// Document is a rich document representation offered for ranking.
type Document struct {
	Text     string
	ID       string
	Metadata map[string]interface{}
}

// DocumentInput is the tagged input variant accepted by the rerank path: a
// single string, a single Document, or an ordered list of either.
type DocumentInput interface {
	isDocumentInput()
}

// TextInput is a plain-string document.
type TextInput string

// RichInput is a single rich document.
type RichInput Document

// ListInput is an ordered sequence of document inputs.
type ListInput []DocumentInput

func (TextInput) isDocumentInput() {}
func (RichInput) isDocumentInput() {}
func (ListInput) isDocumentInput() {}

// RankingRecord is the vendor wire form of one document offered for ranking.
type RankingRecord struct {
	ID      string   `json:"id"`
	Content string   `json:"content,omitempty"`
	Title   string   `json:"title,omitempty"`
	Score   *float64 `json:"score,omitempty"`
}

// RankedResult is one entry of the canonical rerank output, at the position
// the vendor returned it.
type RankedResult struct {
	Document       Document
	RelevanceScore *float64
	RankIndex      int
}

// CreateRankingRecords converts document inputs into vendor ranking records.
//
// Id resolution: a single document takes doc_ids[0] when supplied, else "1".
// For a list, element i takes doc_ids[i] only when doc_ids has at least as
// many entries as the list and the entry is non-empty; otherwise every id
// falls back to the positional index. Records with neither text nor title
// are dropped; an unsupported input shape or an all-dropped batch yields an
// empty result with a single logged warning, never an error.
func CreateRankingRecords(docs DocumentInput, docIDs []string, metadata map[string]interface{}) []RankingRecord {
	switch d := docs.(type) {
	case TextInput, RichInput:
		record := parseSingleRankingRecord(d, metadata, docIDs)
		if record == nil {
			logNoRankingRecords()
			return []RankingRecord{}
		}
		return []RankingRecord{*record}
	case ListInput:
		records := make([]RankingRecord, 0, len(d))
		for i, elem := range d {
			record := parseToRankingRecord(elem, metadata, docIDs, i, len(d))
			if record != nil {
				records = append(records, *record)
			}
		}
		if len(records) == 0 {
			logNoRankingRecords()
		}
		return records
	default:
		logNoRankingRecords()
		return []RankingRecord{}
	}
}

func logNoRankingRecords() {
	rerankLogger.Warn("Did not find any valid ranking records")
}

func parseSingleRankingRecord(d DocumentInput, metadata map[string]interface{}, docIDs []string) *RankingRecord {
	id := "1"
	if len(docIDs) >= 1 {
		id = docIDs[0]
	}
	return createRankingRecord(id, extractText(d), metadata)
}

func parseToRankingRecord(d DocumentInput, metadata map[string]interface{}, docIDs []string, i, docsLen int) *RankingRecord {
	return createRankingRecord(documentID(docIDs, docsLen, i), extractText(d), metadata)
}

// documentID falls back to the positional index whenever doc_ids cannot
// cover the whole document list. The fallback discards all supplied ids, not
// just the missing ones, matching the observed upstream behavior.
func documentID(docIDs []string, docsLen, i int) string {
	if len(docIDs) >= docsLen && docIDs[i] != "" {
		return docIDs[i]
	}
	return strconv.Itoa(i)
}

// createRankingRecord builds one record, or nil when it carries neither text
// nor a title.
func createRankingRecord(id, text string, metadata map[string]interface{}) *RankingRecord {
	title := stringFromMetadata(metadata, "title")
	if text == "" && title == "" {
		return nil
	}

	record := &RankingRecord{ID: id, Content: text, Title: title}
	if score, ok := metadata["score"].(float64); ok {
		record.Score = &score
	}
	return record
}

func stringFromMetadata(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	s, _ := metadata[key].(string)
	return s
}

// extractText resolves the text of a document representation, recursing one
// level at a time through plain strings, mappings with a "text" key, and
// document values, until a string is reached or nothing further can be
// extracted.
func extractText(v interface{}) string {
	switch d := v.(type) {
	case string:
		return d
	case TextInput:
		return string(d)
	case RichInput:
		return extractText(Document(d))
	case Document:
		return extractText(d.Text)
	case *Document:
		if d == nil {
			return ""
		}
		return extractText(d.Text)
	case map[string]interface{}:
		if text, ok := d["text"]; ok {
			return extractText(text)
		}
		return ""
	default:
		return ""
	}
}

// RankedResults pairs the query with its ordered results.
type RankedResults struct {
	Query   string
	Results []RankedResult
}

// ParseRankedResults reconstructs the canonical ranked output from a
// vendor's ranked records, in vendor-returned order. The positional order is
// authoritative; no re-sorting by score happens here.
func ParseRankedResults(query string, records []RankingRecord) RankedResults {
	results := make([]RankedResult, 0, len(records))
	for i, record := range records {
		results = append(results, RankedResult{
			Document:       Document{Text: record.Content, ID: record.ID},
			RelevanceScore: record.Score,
			RankIndex:      i,
		})
	}
	return RankedResults{Query: query, Results: results}
}
