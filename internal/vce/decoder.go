package vce

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"math/bits"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/stemsi/examplay/internal/model"
	"gopkg.in/yaml.v3"
)

// vceSignature is the fixed-offset magic at the start of a binary exam
// container. The four signature bytes are followed by a uint32 format version.
var vceSignature = []byte{0x85, 0xA8, 0x06, 0x02}

const headerSize = 8

// Decode turns raw exam-file bytes into an exam definition. It never fails:
// any structural problem (unknown container, corrupt payload, zero usable
// records) routes to the deterministic synthetic generator so the caller
// always gets a usable exam. The second return value reports whether the
// fallback was taken. The path is used only for the question-count hint and
// the synthetic identity hash; it is never opened.
func Decode(data []byte, path string) (*model.Exam, bool) {
	if exam := tryDecode(data, path); exam != nil {
		return exam, false
	}
	return Generate(path), true
}

// tryDecode classifies the container and attempts a structural decode.
// A nil return means fallback.
func tryDecode(data []byte, path string) *model.Exam {
	if len(data) >= headerSize && bytes.Equal(data[:4], vceSignature) {
		return decodeBinary(data, path)
	}
	if looksTextual(data) {
		return decodeYAML(data, path)
	}
	return nil
}

// decodeBinary inflates the payload after the 8-byte header and walks the
// record stream. Partial extraction is accepted as long as at least one
// well-formed question came out and the yield is not far below the filename
// count hint.
func decodeBinary(data []byte, path string) *model.Exam {
	zr, err := zlib.NewReader(bytes.NewReader(data[headerSize:]))
	if err != nil {
		return nil
	}
	payload, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return nil
	}

	r := &recordReader{buf: payload}

	title := r.readString()
	description := r.readString()
	passingScore := int(r.readByte())
	timeLimit := int(r.readUint16())
	declared := int(r.readUint16())
	if r.failed || passingScore > 100 || declared == 0 {
		return nil
	}

	questions := make([]model.Question, 0, declared)
	for i := 0; i < declared; i++ {
		q, ok := r.readQuestion(len(questions))
		if !ok {
			break // truncated or malformed record: keep what we have
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil
	}
	if hint := CountHint(path); hint > 0 && len(questions)*2 < hint {
		// Far below the advertised size: treat the file as undecodable
		// rather than present a fraction of the exam.
		return nil
	}

	if title == "" {
		title = titleFromPath(path)
	}
	exam := &model.Exam{
		Title:          title,
		Description:    description,
		Author:         "Unknown",
		Version:        "1.0",
		TotalQuestions: len(questions),
		PassingScore:   passingScore,
		Questions:      questions,
	}
	if timeLimit > 0 {
		exam.TimeLimitMinutes = &timeLimit
	}
	if exam.Validate() != nil {
		return nil
	}
	return exam
}

// recordReader walks the fixed-layout record stream. Any out-of-bounds read
// or invalid length prefix sets failed and makes subsequent reads zero
// values.
type recordReader struct {
	buf    []byte
	off    int
	failed bool
}

func (r *recordReader) readByte() byte {
	if r.failed || r.off+1 > len(r.buf) {
		r.failed = true
		return 0
	}
	b := r.buf[r.off]
	r.off++
	return b
}

func (r *recordReader) readUint16() uint16 {
	if r.failed || r.off+2 > len(r.buf) {
		r.failed = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *recordReader) readUint32() uint32 {
	if r.failed || r.off+4 > len(r.buf) {
		r.failed = true
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *recordReader) readString() string {
	n := int(r.readUint16())
	if r.failed || r.off+n > len(r.buf) {
		r.failed = true
		return ""
	}
	raw := r.buf[r.off : r.off+n]
	r.off += n
	if !utf8.Valid(raw) {
		r.failed = true
		return ""
	}
	return string(raw)
}

// readQuestion reads one question record. Layout: question text, type flag
// byte (0 single, 1 multiple), option count byte, options, correct-answer
// bitmask (uint32, bit i = option i).
func (r *recordReader) readQuestion(id int) (model.Question, bool) {
	text := r.readString()
	typeFlag := r.readByte()
	optionCount := int(r.readByte())
	if r.failed || text == "" || typeFlag > 1 || optionCount < 2 || optionCount > 32 {
		return model.Question{}, false
	}

	options := make([]string, 0, optionCount)
	for i := 0; i < optionCount; i++ {
		opt := r.readString()
		if r.failed || opt == "" {
			return model.Question{}, false
		}
		options = append(options, opt)
	}

	mask := r.readUint32()
	if r.failed || mask == 0 || mask >= 1<<optionCount {
		return model.Question{}, false
	}

	qType := model.QuestionTypeSingle
	if typeFlag == 1 {
		qType = model.QuestionTypeMultiple
	}
	if qType == model.QuestionTypeSingle && bits.OnesCount32(mask) != 1 {
		return model.Question{}, false
	}

	correct := make([]int, 0, bits.OnesCount32(mask))
	for i := 0; i < optionCount; i++ {
		if mask&(1<<i) != 0 {
			correct = append(correct, i)
		}
	}

	return model.Question{
		ID:             id,
		Type:           qType,
		Text:           text,
		Options:        options,
		CorrectAnswers: correct,
	}, true
}

// examDocument is the YAML exam container, an alternative to the binary
// format for hand-written practice sets.
type examDocument struct {
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	Author           string `yaml:"author"`
	Version          string `yaml:"version"`
	PassingScore     int    `yaml:"passing_score"`
	TimeLimitMinutes int    `yaml:"time_limit_minutes"`
	Questions        []struct {
		Text           string   `yaml:"text"`
		Type           string   `yaml:"type"`
		Options        []string `yaml:"options"`
		CorrectAnswers []int    `yaml:"correct_answers"`
		Explanation    string   `yaml:"explanation"`
	} `yaml:"questions"`
}

func decodeYAML(data []byte, path string) *model.Exam {
	var doc examDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	if doc.Title == "" || len(doc.Questions) == 0 {
		return nil
	}

	questions := make([]model.Question, 0, len(doc.Questions))
	for i, dq := range doc.Questions {
		qType := model.QuestionTypeSingle
		if strings.EqualFold(dq.Type, "multiple") {
			qType = model.QuestionTypeMultiple
		}
		questions = append(questions, model.Question{
			ID:             i,
			Type:           qType,
			Text:           dq.Text,
			Options:        dq.Options,
			CorrectAnswers: dq.CorrectAnswers,
			Explanation:    dq.Explanation,
		})
	}

	passingScore := doc.PassingScore
	if passingScore == 0 {
		passingScore = 70
	}
	exam := &model.Exam{
		Title:          doc.Title,
		Description:    doc.Description,
		Author:         doc.Author,
		Version:        doc.Version,
		TotalQuestions: len(questions),
		PassingScore:   passingScore,
		Questions:      questions,
	}
	if doc.TimeLimitMinutes > 0 {
		tl := doc.TimeLimitMinutes
		exam.TimeLimitMinutes = &tl
	}
	if exam.Validate() != nil {
		return nil
	}
	return exam
}

// looksTextual reports whether the payload could be a YAML document: valid
// UTF-8 with no NUL bytes in the leading window.
func looksTextual(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	window := data
	if len(window) > 512 {
		window = window[:512]
	}
	if bytes.IndexByte(window, 0) >= 0 {
		return false
	}
	return utf8.Valid(window)
}

// countHintRe matches an integer immediately followed by a literal "q"
// before the file extension, e.g. "...35q.vce" or "..._219q".
var countHintRe = regexp.MustCompile(`(?i)(\d+)q(?:[._]|$)`)

// CountHint extracts the advertised question count from a file name.
// Returns 0 when the name carries no hint.
func CountHint(path string) int {
	matches := countHintRe.FindAllStringSubmatch(filepath.Base(path), -1)
	if len(matches) == 0 {
		return 0
	}
	// The last match wins: names like "v2025.02.16.206q.vce" embed dates
	// before the real hint.
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// titleFromPath derives a display title from the file stem, turning
// separator characters into spaces.
func titleFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	replacer := strings.NewReplacer(".", " ", "-", " ", "_", " ")
	return strings.Join(strings.Fields(replacer.Replace(stem)), " ")
}
