package facultypedia

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `1200`, 1200},
		{"numeric string", `"1200"`, 1200},
		{"padded string", `" 45.5 "`, 45.5},
		{"garbage string", `"free"`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n FlexNumber
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, float64(n))
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"number", `42`, 42},
		{"numeric string", `"42"`, 42},
		{"array of ids", `["a","b","c"]`, 3},
		{"array of objects", `[{"id":1},{"id":2}]`, 2},
		{"empty array", `[]`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Count
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.want, int(c))
		})
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"array", `["Math","Algebra"]`, []string{"Math", "Algebra"}},
		{"scalar", `"Physics"`, []string{"Physics"}},
		{"mixed types", `["Math", 12, null]`, []string{"Math", "12"}},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &l))
			assert.Equal(t, StringList(tt.want), l)
		})
	}

	assert.Equal(t, "Math, Algebra", StringList{"Math", "Algebra"}.Join())
	assert.Equal(t, "", StringList(nil).Join())
}

func TestRating(t *testing.T) {
	var r Rating
	require.NoError(t, json.Unmarshal([]byte(`4.5`), &r))
	assert.Equal(t, Rating(4.5), r)

	require.NoError(t, json.Unmarshal([]byte(`{"average": 4.267, "count": 12}`), &r))
	assert.InDelta(t, 4.267, float64(r), 1e-9)

	require.NoError(t, json.Unmarshal([]byte(`"3.8"`), &r))
	assert.Equal(t, Rating(3.8), r)
}

func TestNameRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", `"Ramesh Iyer"`, "Ramesh Iyer"},
		{"fullName wins", `{"fullName":"Ramesh Iyer","name":"ramesh","username":"riyer"}`, "Ramesh Iyer"},
		{"name fallback", `{"name":"ramesh","username":"riyer"}`, "ramesh"},
		{"username fallback", `{"username":"riyer"}`, "riyer"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n NameRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, NameRef(tt.want), n)
		})
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Pagination
	}{
		{
			"standard block",
			`{"currentPage":2,"totalPages":5,"total":96,"hasNextPage":true,"hasPrevPage":true}`,
			Pagination{CurrentPage: 2, TotalPages: 5, Total: 96, HasNextPage: true, HasPrevPage: true},
		},
		{
			"entity specific total",
			`{"currentPage":1,"totalPages":3,"totalCourses":41}`,
			Pagination{CurrentPage: 1, TotalPages: 3, Total: 41},
		},
		{
			"payments shape",
			`{"page":1,"pages":7,"count":130}`,
			Pagination{CurrentPage: 1, TotalPages: 7, Total: 130},
		},
		{
			"string numbers",
			`{"currentPage":"2","totalPages":"5","total":"96"}`,
			Pagination{CurrentPage: 2, TotalPages: 5, Total: 96},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pagination
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestEntityID_Key(t *testing.T) {
	var e RawCourse
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1"}`), &e))
	assert.Equal(t, "c1", e.Key())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"c2","_id":"mongo"}`), &e))
	assert.Equal(t, "c2", e.Key())

	require.NoError(t, json.Unmarshal([]byte(`{"id":123}`), &e))
	assert.Equal(t, "123", e.Key())
}

func TestChatMessage_Decode(t *testing.T) {
	raw := `{
		"_id": "m1",
		"conversationId": "conv1",
		"content": "hello",
		"sender": {"userId": "admin1", "userType": "admin"},
		"receiver": {"userId": {"_id": "s1", "fullName": "Priya Sharma"}, "userType": "student"},
		"createdAt": "2026-08-30T10:15:00Z",
		"isRead": false
	}`
	var m ChatMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "conv1", m.ConversationID)
	assert.Equal(t, "admin1", m.Sender.UserID)
	assert.Equal(t, "s1", m.Receiver.UserID)
	assert.Equal(t, "Priya Sharma", m.Receiver.Name)
	assert.False(t, m.IsRead)

	// Re-encoding always uses the plain id field.
	encoded, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"id":"m1"`)
	assert.NotContains(t, string(encoded), `"_id"`)
}

func TestChatConversation_Decode(t *testing.T) {
	raw := `{
		"_id": "conv1",
		"participants": [
			{"userId": "admin1", "userType": "admin"},
			{"userId": {"id": "s1", "name": "Priya"}, "userType": "student"}
		],
		"lastMessage": {"_id": "m9", "content": "bye", "createdAt": "2026-08-30T11:00:00Z"},
		"unreadCount": 3
	}`
	var c ChatConversation
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "conv1", c.ID)
	require.Len(t, c.Participants, 2)
	assert.Equal(t, "s1", c.Participants[1].UserID)
	assert.Equal(t, "Priya", c.Participants[1].Name)
	require.NotNil(t, c.LastMessage)
	assert.Equal(t, "m9", c.LastMessage.ID)
	assert.Equal(t, 3, c.UnreadCount)
}
