// Package facultypedia is the typed client for the Facultypedia backend API.
// The backend's JSON is loose in several places (numbers as strings, scalars
// where arrays are expected, populated references where IDs are expected), so
// the wire types here absorb those variations instead of letting them fail
// requests.
package facultypedia

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FlexString decodes a JSON string or number into a string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// FlexNumber decodes a JSON number, a numeric string, or null. Anything that
// does not parse as a number yields zero rather than an error.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = FlexNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = FlexNumber(f)
	return nil
}

// Count decodes a JSON number, a numeric string, or an array. Arrays count
// their elements, which covers fields like enrolledStudents that the backend
// sometimes returns as the full list and sometimes as a count.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*c = 0
		return nil
	}
	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*c = Count(len(items))
		return nil
	}
	var n FlexNumber
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = Count(n)
	return nil
}

// StringList decodes a JSON array of strings or a single scalar into a slice.
// Non-string array elements are stringified, nulls are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] != '[' {
		var s FlexString
		if err := s.UnmarshalJSON(data); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = StringList{string(s)}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		var s FlexString
		if err := s.UnmarshalJSON(item); err != nil {
			continue
		}
		if s != "" {
			out = append(out, string(s))
		}
	}
	*l = out
	return nil
}

// Join returns the elements joined with ", ", or empty for an empty list.
func (l StringList) Join() string {
	return strings.Join(l, ", ")
}

// Rating decodes a numeric rating or an aggregate object like
// {"average": 4.5, "count": 12}.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Average FlexNumber `json:"average"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = Rating(obj.Average)
		return nil
	}
	var n FlexNumber
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Rating(n)
	return nil
}

// NameRef decodes an educator reference that may be a plain name string or a
// populated user object. Only the display name is kept.
type NameRef string

func (n *NameRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			FullName string `json:"fullName"`
			Name     string `json:"name"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.FullName != "":
			*n = NameRef(obj.FullName)
		case obj.Name != "":
			*n = NameRef(obj.Name)
		default:
			*n = NameRef(obj.Username)
		}
		return nil
	}
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = NameRef(s)
	return nil
}

// Pagination is the backend's pagination block. The total field is named
// inconsistently across endpoints (total, totalCourses, totalEducators, count,
// ...), so decoding scans for any total-ish key.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func (p *Pagination) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	asInt := func(key string) (int, bool) {
		raw, ok := fields[key]
		if !ok {
			return 0, false
		}
		var n FlexNumber
		if err := n.UnmarshalJSON(raw); err != nil {
			return 0, false
		}
		return int(n), true
	}
	asBool := func(key string) bool {
		var b bool
		if raw, ok := fields[key]; ok {
			_ = json.Unmarshal(raw, &b)
		}
		return b
	}

	if v, ok := asInt("currentPage"); ok {
		p.CurrentPage = v
	} else if v, ok := asInt("page"); ok {
		p.CurrentPage = v
	}
	if v, ok := asInt("totalPages"); ok {
		p.TotalPages = v
	} else if v, ok := asInt("pages"); ok {
		p.TotalPages = v
	}
	p.HasNextPage = asBool("hasNextPage")
	p.HasPrevPage = asBool("hasPrevPage")

	if v, ok := asInt("total"); ok {
		p.Total = v
		return nil
	}
	if v, ok := asInt("count"); ok {
		p.Total = v
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if strings.HasPrefix(k, "total") && k != "totalPages" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v, ok := asInt(k); ok {
			p.Total = v
			return nil
		}
	}
	return nil
}

// ---------- entity wire shapes ----------

// entityID holds both ID spellings the backend uses. Key returns whichever is
// present, preferring id over _id.
type entityID struct {
	ID      FlexString `json:"id"`
	MongoID FlexString `json:"_id"`
}

func (e entityID) Key() string {
	if e.ID != "" {
		return string(e.ID)
	}
	return string(e.MongoID)
}

type RawEducator struct {
	entityID
	FullName       string     `json:"fullName"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Specialization StringList `json:"specialization"`
	Rating         Rating     `json:"rating"`
	Status         string     `json:"status"`
	IsActive       *bool      `json:"isActive"`
	TotalCourses   *Count     `json:"totalCourses"`
	Courses        Count      `json:"courses"`
	TotalStudents  *Count     `json:"totalStudents"`
	Followers      *Count     `json:"followers"`
	FollowersCount Count      `json:"followersCount"`
	JoinedAt       string     `json:"joinedAt"`
	CreatedAt      string     `json:"createdAt"`
}

type RawStudent struct {
	entityID
	FullName        string     `json:"fullName"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Class           FlexString `json:"class"`
	Grade           FlexString `json:"grade"`
	EnrolledCourses *Count     `json:"enrolledCourses"`
	Courses         Count      `json:"courses"`
	Status          string     `json:"status"`
	IsActive        *bool      `json:"isActive"`
	JoinedAt        string     `json:"joinedAt"`
	CreatedAt       string     `json:"createdAt"`
}

type RawCourse struct {
	entityID
	Title            string     `json:"title"`
	EducatorName     string     `json:"educatorName"`
	Educator         NameRef    `json:"educator"`
	EducatorID       NameRef    `json:"educatorID"`
	Subject          StringList `json:"subject"`
	Enrolled         *Count     `json:"enrolled"`
	EnrolledStudents Count      `json:"enrolledStudents"`
	Fees             FlexNumber `json:"fees"`
	Status           string     `json:"status"`
	IsActive         *bool      `json:"isActive"`
}

type RawTest struct {
	entityID
	Title            string     `json:"title"`
	Subject          StringList `json:"subject"`
	Duration         Count      `json:"duration"`
	TotalMarks       FlexNumber `json:"totalMarks"`
	Questions        Count      `json:"questions"`
	Enrolled         *Count     `json:"enrolled"`
	EnrolledStudents Count      `json:"enrolledStudents"`
	Status           string     `json:"status"`
	IsActive         *bool      `json:"isActive"`
}

type RawTestSeries struct {
	entityID
	Title            string     `json:"title"`
	EducatorName     string     `json:"educatorName"`
	Educator         NameRef    `json:"educator"`
	EducatorRef      NameRef    `json:"educatorId"`
	Tests            *Count     `json:"tests"`
	NumberOfTests    Count      `json:"numberOfTests"`
	TestCount        Count      `json:"testCount"`
	Enrolled         *Count     `json:"enrolled"`
	EnrolledStudents *Count     `json:"enrolledStudents"`
	EnrolledCount    Count      `json:"enrolledCount"`
	Price            FlexNumber `json:"price"`
	Validity         FlexString `json:"validity"`
	Status           string     `json:"status"`
	IsActive         *bool      `json:"isActive"`
}

type RawWebinar struct {
	entityID
	Title        string     `json:"title"`
	EducatorName string     `json:"educatorName"`
	Educator     NameRef    `json:"educator"`
	Subject      StringList `json:"subject"`
	Date         string     `json:"date"`
	StartTime    string     `json:"startTime"`
	Capacity     *Count     `json:"capacity"`
	MaxStudents  Count      `json:"maxStudents"`
	Enrolled     *Count     `json:"enrolled"`
	Registered   Count      `json:"registeredStudents"`
	Fees         FlexNumber `json:"fees"`
	Status       string     `json:"status"`
	IsActive     *bool      `json:"isActive"`
}

type RawLiveClass struct {
	entityID
	LiveClassTitle   string     `json:"liveClassTitle"`
	Title            string     `json:"title"`
	EducatorName     string     `json:"educatorName"`
	Educator         NameRef    `json:"educator"`
	EducatorID       NameRef    `json:"educatorID"`
	Subject          StringList `json:"subject"`
	ClassTiming      string     `json:"classTiming"`
	CreatedAt        string     `json:"createdAt"`
	ClassDuration    Count      `json:"classDuration"`
	MaxStudents      *Count     `json:"maxStudents"`
	Capacity         Count      `json:"capacity"`
	Enrolled         *Count     `json:"enrolled"`
	EnrolledStudents Count      `json:"enrolledStudents"`
	IsCompleted      bool       `json:"isCompleted"`
	IsActive         *bool      `json:"isActive"`
}

type RawPayout struct {
	entityID
	Educator  NameRef    `json:"educatorId"`
	Amount    FlexNumber `json:"amount"`
	Month     Count      `json:"month"`
	Year      Count      `json:"year"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"createdAt"`
	PaidAt    string     `json:"paidAt"`
}

type RawPayment struct {
	entityID
	ProductType     string     `json:"productType"`
	Amount          FlexNumber `json:"amount"`
	Status          string     `json:"status"`
	CreatedAt       string     `json:"createdAt"`
	ProductSnapshot struct {
		Title string `json:"title"`
	} `json:"productSnapshot"`
	User NameRef `json:"userId"`
}

// ---------- chat wire shapes ----------

// ChatParticipant identifies one side of a conversation. The backend returns
// userId either as a plain ID or as a populated user object.
type ChatParticipant struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	Name     string `json:"name,omitempty"`
}

func (p *ChatParticipant) UnmarshalJSON(data []byte) error {
	var wire struct {
		UserID   json.RawMessage `json:"userId"`
		UserType string          `json:"userType"`
		Name     string          `json:"name"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.UserType = wire.UserType
	p.Name = wire.Name

	raw := bytes.TrimSpace(wire.UserID)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '{' {
		var user struct {
			entityID
			FullName string `json:"fullName"`
			Name     string `json:"name"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(raw, &user); err != nil {
			return err
		}
		p.UserID = user.Key()
		if p.Name == "" {
			switch {
			case user.FullName != "":
				p.Name = user.FullName
			case user.Name != "":
				p.Name = user.Name
			default:
				p.Name = user.Username
			}
		}
		return nil
	}
	var id FlexString
	if err := id.UnmarshalJSON(raw); err != nil {
		return err
	}
	p.UserID = string(id)
	return nil
}

// ChatMessage is a single chat message. Marshalled form always uses "id";
// decoding accepts "_id" as well.
type ChatMessage struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversationId"`
	Content        string          `json:"content"`
	MessageType    string          `json:"messageType,omitempty"`
	Attachments    []string        `json:"attachments,omitempty"`
	Sender         ChatParticipant `json:"sender"`
	Receiver       ChatParticipant `json:"receiver"`
	CreatedAt      time.Time       `json:"createdAt"`
	IsRead         bool            `json:"isRead"`
	ReadAt         *time.Time      `json:"readAt,omitempty"`
}

func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	type alias ChatMessage
	wire := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = wire.MongoID
	}
	return nil
}

// ChatConversation is a conversation summary as returned by the conversation
// list endpoint.
type ChatConversation struct {
	ID            string            `json:"id"`
	Participants  []ChatParticipant `json:"participants"`
	LastMessage   *ChatMessage      `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time        `json:"lastMessageAt,omitempty"`
	UnreadCount   int               `json:"unreadCount"`
}

func (c *ChatConversation) UnmarshalJSON(data []byte) error {
	type alias ChatConversation
	wire := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = wire.MongoID
	}
	return nil
}
