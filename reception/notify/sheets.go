package notify

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	contractx "github.com/bearteam/frontdesk/reception/contract"
)

const headerCell = "Date"

var sheetHeader = []interface{}{
	"Date", "Time", "Caller Phone", "Call Type", "Intent",
	"Assigned Agent", "Conversation", "Voicemail",
}

// SheetLog appends one row per finished call to the tracking spreadsheet.
type SheetLog struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetLog(svc *sheets.Service, spreadsheetID string) *SheetLog {
	return &SheetLog{svc: svc, spreadsheetID: spreadsheetID}
}

// LogCall writes the header row if the sheet has never been initialized,
// then appends the call row. The header check is not atomic across
// concurrent calls; at the office's call volume a doubled header is a
// livable worst case.
func (s *SheetLog) LogCall(ctx context.Context, lead contractx.Lead) error {
	if err := s.ensureHeader(ctx); err != nil {
		return err
	}

	intent := "General"
	if lead.Intent != contractx.IntentUnset {
		intent = string(lead.Intent)
	}
	agentName := ""
	if lead.Agent != nil {
		agentName = lead.Agent.Name
	}

	row := []interface{}{
		lead.At.Format("2006-01-02"),
		lead.At.Format("03:04 PM") + " ET",
		lead.CallerID,
		lead.CallType,
		intent,
		agentName,
		lead.Transcript(),
		lead.Voicemail,
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, "A1", &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: append row: %v", contractx.ErrSheetAppend, err)
	}
	return nil
}

func (s *SheetLog) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: read header cell: %v", contractx.ErrSheetAppend, err)
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 && fmt.Sprint(resp.Values[0][0]) == headerCell {
		return nil
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, "A1:H1", &sheets.ValueRange{
		Values: [][]interface{}{sheetHeader},
	}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: write header row: %v", contractx.ErrSheetAppend, err)
	}
	return nil
}
