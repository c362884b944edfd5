package vce

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	"github.com/stemsi/examplay/internal/model"
)

// Generate produces a deterministic synthetic exam for a file that could not
// be decoded. The same path always yields byte-for-byte identical content, so
// a session resumed against the same file sees the same questions.
//
// This is a declared approximation: the questions come from a fixed topical
// catalogue selected by a hash of the file path, not from the file's actual
// (possibly encrypted) payload.
func Generate(path string) *model.Exam {
	p := poolFor(path)

	count := CountHint(path)
	if count <= 0 {
		count = len(p.questions)
	}

	questions := make([]model.Question, count)
	for i := 0; i < count; i++ {
		src := p.questions[i%len(p.questions)]
		q := src // content of cycled repeats stays identical to the pool source
		q.ID = i
		q.Options = append([]string(nil), src.Options...)
		q.CorrectAnswers = append([]int(nil), src.CorrectAnswers...)
		questions[i] = q
	}

	return &model.Exam{
		Title:          titleFromPath(path),
		Description:    fmt.Sprintf("Practice set (%s). Generated placeholder questions; the original file content could not be decoded.", p.name),
		Author:         "Unknown",
		Version:        "1.0",
		TotalQuestions: count,
		PassingScore:   p.passingScore,
		Questions:      questions,
	}
}

// poolFor maps a file path to one of the fixed question pools. Pure function
// of the path hash: distinct files land on distinct subject areas without any
// mutable registry.
func poolFor(path string) questionPool {
	sum := md5.Sum([]byte(path))
	h := binary.BigEndian.Uint32(sum[:4])
	return poolTable[h%uint32(len(poolTable))]
}
