package amqp

import (
	"encoding/json"
	"time"
)

// Routing keys on the direct exchange.
const (
	RoutingFixedExpenseCreated     = "fixed_expense.created"
	RoutingTransactionMaterialized = "transaction.materialized"
)

// FixedExpenseCreatedMessage asks the recurring worker to materialize the
// current month's occurrence of a freshly created template.
// Contains only identifiers, the worker reloads the template from the database.
type FixedExpenseCreatedMessage struct {
	TemplateID string    `json:"templateId"`
	Owner      string    `json:"owner"`
	Reference  string    `json:"reference"` // YYYY-MM-DD
	Timestamp  time.Time `json:"timestamp"`
}

func NewFixedExpenseCreatedMessage(templateID, owner, reference string) *FixedExpenseCreatedMessage {
	return &FixedExpenseCreatedMessage{
		TemplateID: templateID,
		Owner:      owner,
		Reference:  reference,
		Timestamp:  time.Now(),
	}
}

func (m *FixedExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FixedExpenseCreatedMessageFromJSON(data []byte) (*FixedExpenseCreatedMessage, error) {
	var msg FixedExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TransactionMaterializedMessage announces a transaction generated from a
// fixed-expense template.
type TransactionMaterializedMessage struct {
	TransactionID string    `json:"transactionId"`
	TemplateID    string    `json:"templateId"`
	Owner         string    `json:"owner"`
	SourceKey     string    `json:"sourceKey"`
	Date          string    `json:"date"`
	Amount        string    `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

func (m *TransactionMaterializedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionMaterializedMessageFromJSON(data []byte) (*TransactionMaterializedMessage, error) {
	var msg TransactionMaterializedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
