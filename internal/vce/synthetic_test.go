package vce

import (
	"reflect"
	"strings"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("/exams/AZ-305.35q.vce")
	b := Generate("/exams/AZ-305.35q.vce")
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same path must generate identical exams")
	}
}

func TestGenerateHonorsCountHint(t *testing.T) {
	exam := Generate("AZ-305.35q.vce")

	if exam.TotalQuestions != 35 || len(exam.Questions) != 35 {
		t.Fatalf("questions = %d/%d, want 35", exam.TotalQuestions, len(exam.Questions))
	}
	for i, q := range exam.Questions {
		if q.ID != i {
			t.Fatalf("question %d has id %d, ids must be dense from 0", i, q.ID)
		}
	}
	if err := exam.Validate(); err != nil {
		t.Errorf("generated exam invalid: %v", err)
	}
	if !strings.Contains(exam.Description, "could not be decoded") {
		t.Errorf("description should disclose the placeholder nature, got %q", exam.Description)
	}
}

func TestGenerateWithoutHintUsesPoolSize(t *testing.T) {
	path := "unlabeled.vce"
	exam := Generate(path)

	p := poolFor(path)
	if exam.TotalQuestions != len(p.questions) {
		t.Errorf("questions = %d, want pool size %d", exam.TotalQuestions, len(p.questions))
	}
	if exam.PassingScore != p.passingScore {
		t.Errorf("passing score = %d, want %d", exam.PassingScore, p.passingScore)
	}
}

func TestGenerateCyclesPool(t *testing.T) {
	path := "big.20q.vce"
	exam := Generate(path)
	p := poolFor(path)

	if exam.TotalQuestions != 20 {
		t.Fatalf("questions = %d, want 20", exam.TotalQuestions)
	}
	for i, q := range exam.Questions {
		src := p.questions[i%len(p.questions)]
		if q.Text != src.Text {
			t.Fatalf("question %d text diverges from its pool source", i)
		}
		if !reflect.DeepEqual(q.Options, src.Options) || !reflect.DeepEqual(q.CorrectAnswers, src.CorrectAnswers) {
			t.Fatalf("question %d content diverges from its pool source", i)
		}
	}
}

func TestGenerateTitleFromPath(t *testing.T) {
	exam := Generate("/downloads/SAA-C03_practice.65q.vce")
	if exam.Title != "SAA C03 practice 65q" {
		t.Errorf("title = %q", exam.Title)
	}
}

func TestPoolForStable(t *testing.T) {
	a := poolFor("some/path.vce")
	b := poolFor("some/path.vce")
	if a.name != b.name {
		t.Error("pool selection must be a pure function of the path")
	}
}

func TestPoolTableWellFormed(t *testing.T) {
	for _, p := range poolTable {
		for i, q := range p.questions {
			if q.ID != i {
				t.Errorf("pool %q question %d has id %d", p.name, i, q.ID)
			}
			if err := q.Validate(); err != nil {
				t.Errorf("pool %q question %d invalid: %v", p.name, i, err)
			}
		}
	}
}
