package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

// CallRow is one archived call in Postgres. The archive mirrors the
// spreadsheet columns so either channel can reconstruct the other.
type CallRow struct {
	bun.BaseModel `bun:"table:call_log,alias:cl"`

	ID           int64      `bun:"id,pk,autoincrement"`
	CallerID     string     `bun:"caller_id,notnull"`
	CallType     string     `bun:"call_type,notnull"`
	Intent       string     `bun:"intent"`
	AgentName    string     `bun:"agent_name"`
	Conversation string     `bun:"conversation"`
	Voicemail    string     `bun:"voicemail"`
	BookedAt     *time.Time `bun:"booked_at"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// CallArchive persists finished calls to Postgres. Optional: the service
// runs without it when no DSN is configured.
type CallArchive struct {
	db *bun.DB
}

func NewCallArchive(dsn string) *CallArchive {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &CallArchive{db: bun.NewDB(sqldb, pgdialect.New())}
}

// EnsureSchema creates the call_log table if it does not exist yet.
func (a *CallArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.NewCreateTable().Model((*CallRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("%w: create table: %v", contractx.ErrArchiveWrite, err)
	}
	return nil
}

func (a *CallArchive) LogCall(ctx context.Context, lead contractx.Lead) error {
	intent := "General"
	if lead.Intent != contractx.IntentUnset {
		intent = string(lead.Intent)
	}
	agentName := ""
	if lead.Agent != nil {
		agentName = lead.Agent.Name
	}

	row := &CallRow{
		CallerID:     lead.CallerID,
		CallType:     lead.CallType,
		Intent:       intent,
		AgentName:    agentName,
		Conversation: lead.Transcript(),
		Voicemail:    lead.Voicemail,
		BookedAt:     lead.BookedSlot,
		CreatedAt:    lead.At,
	}
	if _, err := a.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert call row: %v", contractx.ErrArchiveWrite, err)
	}
	return nil
}

func (a *CallArchive) Close() error {
	return a.db.Close()
}
