package facultypedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListParams are the common query parameters of the admin list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", fmt.Sprint(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", fmt.Sprint(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	return v
}

// ---------- admin entity lists ----------

func (c *Client) ListEducators(ctx context.Context, p ListParams) ([]RawEducator, Pagination, error) {
	var out struct {
		Educators  []RawEducator `json:"educators"`
		Pagination Pagination    `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/educators", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Educators, out.Pagination, nil
}

func (c *Client) ListStudents(ctx context.Context, p ListParams) ([]RawStudent, Pagination, error) {
	var out struct {
		Students   []RawStudent `json:"students"`
		Pagination Pagination   `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/students", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Students, out.Pagination, nil
}

func (c *Client) ListCourses(ctx context.Context, p ListParams) ([]RawCourse, Pagination, error) {
	var out struct {
		Courses    []RawCourse `json:"courses"`
		Pagination Pagination  `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/courses", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Courses, out.Pagination, nil
}

func (c *Client) ListTests(ctx context.Context, p ListParams) ([]RawTest, Pagination, error) {
	var out struct {
		Tests      []RawTest  `json:"tests"`
		Pagination Pagination `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/tests", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Tests, out.Pagination, nil
}

func (c *Client) ListTestSeries(ctx context.Context, p ListParams) ([]RawTestSeries, Pagination, error) {
	var out struct {
		TestSeries []RawTestSeries `json:"testSeries"`
		Pagination Pagination      `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/test-series", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.TestSeries, out.Pagination, nil
}

func (c *Client) ListWebinars(ctx context.Context, p ListParams) ([]RawWebinar, Pagination, error) {
	var out struct {
		Webinars   []RawWebinar `json:"webinars"`
		Pagination Pagination   `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/webinars", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Webinars, out.Pagination, nil
}

func (c *Client) ListLiveClasses(ctx context.Context, p ListParams) ([]RawLiveClass, Pagination, error) {
	var out struct {
		LiveClasses []RawLiveClass `json:"liveClasses"`
		Pagination  Pagination     `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/live-classes", p.values(), &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.LiveClasses, out.Pagination, nil
}

// ---------- admin entity mutations ----------

// UpdateEducatorStatus sets an educator's status to "active" or "inactive".
func (c *Client) UpdateEducatorStatus(ctx context.Context, id, status string) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.put(ctx, "/api/admin/educators/"+url.PathEscape(id)+"/status", map[string]string{"status": status}, nil)
}

// UpdateStudentStatus flips a student's isActive flag.
func (c *Client) UpdateStudentStatus(ctx context.Context, id string, isActive bool) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.put(ctx, "/api/admin/students/"+url.PathEscape(id)+"/status", map[string]bool{"isActive": isActive}, nil)
}

func (c *Client) DeleteEducator(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/educators/"+url.PathEscape(id))
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/students/"+url.PathEscape(id))
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/courses/"+url.PathEscape(id))
}

func (c *Client) DeleteTest(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/tests/"+url.PathEscape(id))
}

func (c *Client) DeleteTestSeries(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/test-series/"+url.PathEscape(id))
}

func (c *Client) DeleteWebinar(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/webinars/"+url.PathEscape(id))
}

func (c *Client) DeleteLiveClass(ctx context.Context, id string) error {
	return c.adminDelete(ctx, "/api/admin/live-classes/"+url.PathEscape(id))
}

// ---------- analytics and revenue ----------

// Analytics returns the platform analytics payload as-is.
func (c *Client) Analytics(ctx context.Context, params url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.adminGet(ctx, "/api/admin/analytics", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RevenueSummary(ctx context.Context, params url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.adminGet(ctx, "/api/admin/revenue/summary", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RevenueByMonth(ctx context.Context, params url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.adminGet(ctx, "/api/admin/revenue/by-month", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RevenueByType(ctx context.Context, params url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.adminGet(ctx, "/api/admin/revenue/by-type", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RevenueTransactions(ctx context.Context, params url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.adminGet(ctx, "/api/admin/revenue/transactions", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- payouts and payments ----------

// ListPayouts returns payouts for a billing period. Params typically carry
// month and year.
func (c *Client) ListPayouts(ctx context.Context, params url.Values) ([]RawPayout, int, error) {
	var out struct {
		Payouts []RawPayout `json:"payouts"`
		Count   Count       `json:"count"`
	}
	if err := c.adminGet(ctx, "/api/admin/payouts", params, &out); err != nil {
		return nil, 0, err
	}
	count := int(out.Count)
	if count == 0 {
		count = len(out.Payouts)
	}
	return out.Payouts, count, nil
}

// CalculatePayouts asks the backend to compute payouts for the given period.
func (c *Client) CalculatePayouts(ctx context.Context, month, year int) (json.RawMessage, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return nil, err
	}
	var out json.RawMessage
	body := map[string]int{"month": month, "year": year}
	if err := c.post(ctx, "/api/admin/payouts/calculate", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessPayout marks a single pending payout as paid.
func (c *Client) ProcessPayout(ctx context.Context, payoutID string) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.post(ctx, "/api/admin/payouts/pay", map[string]string{"payoutId": payoutID}, nil)
}

// ProcessPayouts marks several pending payouts as paid in one call.
func (c *Client) ProcessPayouts(ctx context.Context, payoutIDs []string) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.post(ctx, "/api/admin/payouts/pay", map[string][]string{"payoutIds": payoutIDs}, nil)
}

// ListPayments returns the raw payment ledger.
func (c *Client) ListPayments(ctx context.Context, params url.Values) ([]RawPayment, Pagination, error) {
	var out struct {
		Payments   []RawPayment `json:"payments"`
		Pagination Pagination   `json:"pagination"`
	}
	if err := c.adminGet(ctx, "/api/admin/payments", params, &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Payments, out.Pagination, nil
}

// ---------- chat ----------

func (c *Client) ListConversations(ctx context.Context) ([]ChatConversation, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return nil, err
	}
	var out struct {
		Conversations []ChatConversation `json:"conversations"`
	}
	if err := c.get(ctx, "/api/chat/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID string, page, limit int) ([]ChatMessage, Pagination, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return nil, Pagination{}, err
	}
	params := url.Values{}
	if page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	var out struct {
		Messages   []ChatMessage `json:"messages"`
		Pagination Pagination    `json:"pagination"`
	}
	path := "/api/chat/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.get(ctx, path, params, &out); err != nil {
		return nil, Pagination{}, err
	}
	return out.Messages, out.Pagination, nil
}

// SendMessageParams is the REST fallback for sending a chat message when the
// socket is down.
type SendMessageParams struct {
	ConversationID string   `json:"conversationId"`
	ReceiverID     string   `json:"receiverId"`
	ReceiverType   string   `json:"receiverType"`
	Content        string   `json:"content"`
	MessageType    string   `json:"messageType,omitempty"`
	Attachments    []string `json:"attachments,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, p SendMessageParams) (ChatMessage, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return ChatMessage{}, err
	}
	var raw json.RawMessage
	if err := c.post(ctx, "/api/chat/messages", p, &raw); err != nil {
		return ChatMessage{}, err
	}
	// Some backend versions return the message directly, others wrap it.
	var wrapped struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && len(wrapped.Message) > 0 && wrapped.Message[0] == '{' {
		raw = wrapped.Message
	}
	var msg ChatMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ChatMessage{}, &APIError{Status: StatusNetwork, Message: fmt.Sprintf("decode message: %v", err)}
	}
	return msg, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, messageID string) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.put(ctx, "/api/chat/messages/"+url.PathEscape(messageID)+"/read", nil, nil)
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.put(ctx, "/api/chat/conversations/"+url.PathEscape(conversationID)+"/read", nil, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return 0, err
	}
	var out struct {
		Count       Count `json:"count"`
		UnreadCount Count `json:"unreadCount"`
	}
	if err := c.get(ctx, "/api/chat/unread-count", nil, &out); err != nil {
		return 0, err
	}
	if out.UnreadCount > 0 {
		return int(out.UnreadCount), nil
	}
	return int(out.Count), nil
}

// ---------- helpers ----------

func (c *Client) adminGet(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.get(ctx, path, params, out)
}

func (c *Client) adminDelete(ctx context.Context, path string) error {
	if err := c.EnsureSession(ctx); err != nil {
		return err
	}
	return c.delete(ctx, path)
}
