package dailymodel_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/dailymood/dailymodel"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		var u dailymodel.User
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"username":"alice"}`), &u))
		require.Equal(t, dailymodel.User{ID: 1, Username: "alice"}, u)
	})

	t.Run("bare username", func(t *testing.T) {
		var resp struct {
			User *dailymodel.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"user":"bob"}`), &resp))
		require.NotNil(t, resp.User)
		require.Equal(t, "bob", resp.User.Username)
		require.Zero(t, resp.User.ID)
	})

	t.Run("garbage", func(t *testing.T) {
		var u dailymodel.User
		require.Error(t, json.Unmarshal([]byte(`[1,2]`), &u))
	})
}

func TestObjective_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantID    string
		completed *bool
	}{
		{name: "string id with flag", body: `{"id":"a1","title":"Run","isCompleted":true}`, wantID: "a1", completed: boolPtr(true)},
		{name: "numeric id with status", body: `{"id":12,"title":"Run","status":"completed"}`, wantID: "12", completed: boolPtr(true)},
		{name: "active status", body: `{"id":3,"title":"Run","status":"active"}`, wantID: "3", completed: boolPtr(false)},
		{name: "flag wins over status", body: `{"id":3,"title":"Run","status":"completed","isCompleted":false}`, wantID: "3", completed: boolPtr(false)},
		{name: "no completion info", body: `{"id":"x","title":"Run"}`, wantID: "x", completed: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o dailymodel.Objective
			require.NoError(t, json.Unmarshal([]byte(tt.body), &o))
			require.Equal(t, tt.wantID, o.ID)
			require.Equal(t, "Run", o.Title)
			require.Equal(t, tt.completed, o.IsCompleted)
		})
	}
}

func TestObjective_MarshalOmitsEmptyID(t *testing.T) {
	body, err := json.Marshal(dailymodel.ObjectiveRequest{Objective: dailymodel.Objective{Title: "Read", IsCompleted: boolPtr(false)}})
	require.NoError(t, err)
	require.JSONEq(t, `{"objective":{"title":"Read","isCompleted":false}}`, string(body))
}

func TestReport_EvaluationParagraphs(t *testing.T) {
	require.Nil(t, dailymodel.Report{}.EvaluationParagraphs())

	eval := "First.\n\nSecond.\n"
	r := dailymodel.Report{Evaluation: &eval}
	require.Equal(t, []string{"First.", "Second."}, r.EvaluationParagraphs())
}

func TestErrorBody_Text(t *testing.T) {
	var detail dailymodel.ErrorBody
	require.NoError(t, json.Unmarshal([]byte(`{"detail":"Invalid credentials"}`), &detail))
	require.Equal(t, "Invalid credentials", detail.Text())

	var message dailymodel.ErrorBody
	require.NoError(t, json.Unmarshal([]byte(`{"message":"boom"}`), &message))
	require.Equal(t, "boom", message.Text())

	var list dailymodel.ErrorBody
	require.NoError(t, json.Unmarshal([]byte(`{"detail":[{"msg":"field required"}]}`), &list))
	require.Contains(t, list.Text(), "field required")
}

func TestCatalog(t *testing.T) {
	a, ok := dailymodel.AdvisorByID(3)
	require.True(t, ok)
	require.Equal(t, "Iroh", a.Name)

	_, ok = dailymodel.AdvisorByID(42)
	require.False(t, ok)

	q, ok := dailymodel.QuestionFor(dailymodel.FieldQ2)
	require.True(t, ok)
	require.Equal(t, "Qu'avez-vous accompli aujourd'hui ?", q.Text)

	require.Contains(t, dailymodel.Moods, "😴 Fatigué")
}

func boolPtr(b bool) *bool {
	return &b
}
