//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"testing"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

var (
	baseURL   string
	examID    string
	sessionID string
	token     string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	os.Exit(m.Run())
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, url string, body interface{}, auth string, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", "Bearer "+auth)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return resp
}

func Test01_UploadExam(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "E2E-101.6q.vce")
	if err != nil {
		t.Fatal(err)
	}
	// Deliberately undecodable: exercises the synthetic fallback end to end.
	fw.Write([]byte{0x00, 0x01, 0x02, 0x03})
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/exams", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	var summary struct {
		ExamID         string `json:"exam_id"`
		TotalQuestions int    `json:"total_questions"`
		Synthetic      bool   `json:"synthetic"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatal(err)
	}
	if !summary.Synthetic || summary.TotalQuestions != 6 {
		t.Fatalf("summary = %+v", summary)
	}
	examID = summary.ExamID
}

func Test02_StartSession(t *testing.T) {
	var data struct {
		Session struct {
			SessionID     string `json:"session_id"`
			QuestionOrder []int  `json:"question_order"`
		} `json:"session"`
		Token string `json:"token"`
	}
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/exams/%s/sessions", baseURL, examID),
		map[string]interface{}{"randomize": true, "max_questions": 4}, "", &data)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(data.Session.QuestionOrder) != 4 || data.Token == "" {
		t.Fatalf("data = %+v", data)
	}
	sessionID = data.Session.SessionID
	token = data.Token
}

func Test03_AnswerAndEnd(t *testing.T) {
	var progress struct {
		Answered int `json:"answered"`
	}

	// Answering without the session token must be rejected.
	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/sessions/%s/answers", baseURL, sessionID),
		map[string]interface{}{"question_id": 0, "selected_answers": []int{0}}, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated answer status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/sessions/%s/answers", baseURL, sessionID),
		map[string]interface{}{"question_id": 0, "selected_answers": []int{0}, "time_spent_seconds": 5}, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/sessions/%s/progress", baseURL, sessionID), nil, token, &progress)
	if resp.StatusCode != http.StatusOK || progress.Answered != 1 {
		t.Fatalf("progress = %+v (status %d)", progress, resp.StatusCode)
	}

	var result struct {
		Score  float64 `json:"score"`
		Passed bool    `json:"passed"`
	}
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/sessions/%s/end", baseURL, sessionID), nil, token, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d", resp.StatusCode)
	}

	// A second end must report the completed-session conflict.
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/sessions/%s/end", baseURL, sessionID), nil, token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double end status = %d", resp.StatusCode)
	}
}

func Test04_ListSessions(t *testing.T) {
	var data struct {
		Sessions []struct {
			SessionID string `json:"session_id"`
			Status    string `json:"status"`
		} `json:"sessions"`
	}
	resp := doJSON(t, http.MethodGet, baseURL+"/sessions", nil, "", &data)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	found := false
	for _, s := range data.Sessions {
		if s.SessionID == sessionID && s.Status == "COMPLETED" {
			found = true
		}
	}
	if !found {
		t.Fatalf("completed session %s not in listing", sessionID)
	}
}
