package backend

import "encoding/json"

// User identifies an authenticated sales rep.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// LoginResult carries the user plus the opaque bearer token issued upstream.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyParams struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResetPasswordParams struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Requirement is one extracted RFP specification row. Attribute keys keep
// the upstream capitalization so round-trips do not lose data.
type Requirement struct {
	ID               string `json:"id,omitempty"`
	TypeID           string `json:"type_id,omitempty"`
	Description      string `json:"description,omitempty"`
	FixtureType      string `json:"Fixture_Type,omitempty"`
	Wattage          string `json:"Wattage,omitempty"`
	ColorTemperature string `json:"Color_Temperature,omitempty"`
	IPRating         string `json:"IP_Rating,omitempty"`
}

// Key returns the identifier used to correlate a requirement with its match.
func (r Requirement) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.TypeID
}

// Alternative is a candidate product ranked against a requirement.
type Alternative struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Score       float64 `json:"score"`
}

// Match is a line item tying a requirement to a catalog product.
type Match struct {
	ProductID          int64         `json:"product_id"`
	ProductTitle       string        `json:"product_title"`
	ProductDescription string        `json:"product_description,omitempty"`
	RequirementID      string        `json:"requirement_id,omitempty"`
	Quantity           int64         `json:"quantity"`
	Price              float64       `json:"price"`
	UnitPrice          float64       `json:"unit_price"`
	Reasoning          string        `json:"reasoning,omitempty"`
	ImageURL           string        `json:"image_url,omitempty"`
	Alternatives       []Alternative `json:"alternatives,omitempty"`
}

// QuotationContent is the parsed RFP payload stored with a quotation.
type QuotationContent struct {
	ClientName   string        `json:"client_name,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
	Matches      []Match       `json:"matches,omitempty"`
}

type Quotation struct {
	ID         int64             `json:"id"`
	RFPTitle   string            `json:"rfp_title"`
	ClientName string            `json:"client_name,omitempty"`
	Status     string            `json:"status"`
	TotalPrice float64           `json:"total_price"`
	Content    *QuotationContent `json:"content,omitempty"`
	CreatedAt  string            `json:"created_at,omitempty"`
}

// Quotation lifecycle statuses as stored upstream.
const (
	StatusDraft     = "draft"
	StatusSaved     = "saved"
	StatusCreated   = "created"
	StatusFinalized = "finalized"
	StatusSent      = "sent"
	StatusReChanges = "re_changes"
)

type UpdateQuotationItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type UpdateQuotationParams struct {
	ClientName string                `json:"client_name,omitempty"`
	Items      []UpdateQuotationItem `json:"items"`
}

type UpdateQuotationResult struct {
	TotalPrice float64 `json:"total_price"`
}

type RematchResult struct {
	Matches    []Match `json:"matches"`
	TotalPrice float64 `json:"total_price"`
}

// CatalogItem is a product in the lighting catalog.
type CatalogItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Wattage     string  `json:"wattage,omitempty"`
	CCT         string  `json:"cct,omitempty"`
	IPRating    string  `json:"ip_rating,omitempty"`
	FixtureType string  `json:"fixture_type,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// VisualMatch is a catalog item scored against an uploaded image.
type VisualMatch struct {
	CatalogItem
	Score float64 `json:"score"`
}

// Opportunity is a pipeline entry tracked ahead of a formal RFP.
type Opportunity struct {
	ID             int64   `json:"id"`
	ClientName     string  `json:"client_name"`
	ProjectName    string  `json:"project_name"`
	ExpectedRFP    string  `json:"expected_rfp_date,omitempty"`
	EstimatedValue float64 `json:"estimated_value"`
	Notes          string  `json:"notes,omitempty"`
	Status         string  `json:"status"`
}

// ChatSession is a stored conversation thread.
type ChatSession struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ChatMessage is one transcript row. Data-chat assistant rows may carry the
// generated SQL and a snapshot of the rows it returned.
type ChatMessage struct {
	Role    string          `json:"role"`
	Content string          `json:"content"`
	SQL     string          `json:"sql_query,omitempty"`
	Data    json.RawMessage `json:"data_snapshot,omitempty"`
}

// ChatResult carries the assistant reply and the session the backend
// assigned when the conversation was new.
type ChatResult struct {
	Response  string          `json:"response"`
	SQL       string          `json:"sql,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}

// ActivityEntry is one audit log row.
type ActivityEntry struct {
	ID         int64  `json:"id"`
	UserEmail  string `json:"user_email,omitempty"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Details    string `json:"details,omitempty"`
	Timestamp  string `json:"timestamp"`
}
