package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/BladMendez/asistencia-mec-nica/internal/types"
)

// Values are written verbatim so "~" and dated headers are never reinterpreted.
const valueInputOption = "RAW"

// Minimum grid for worksheets created by ReplaceWorksheet.
const (
	minNewRows = 100
	minNewCols = 20
)

// Client is the Google Sheets implementation of Store.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewClient connects to the spreadsheet with the given client options,
// typically option.WithCredentialsFile or option.WithCredentialsJSON.
func NewClient(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	opts = append([]option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sheets service")
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// CredentialsOption picks the credentials option for creds: inline JSON when
// it looks like a JSON object, a file path otherwise. Empty creds fall back
// to application default credentials.
func CredentialsOption(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (c *Client) Handle() string {
	return c.spreadsheetID
}

func (c *Client) ListWorksheets(ctx context.Context) ([]string, error) {
	sheets, err := c.sheetProperties(ctx)
	if err != nil {
		return nil, classify(OpListWorksheets, "", err)
	}
	titles := make([]string, 0, len(sheets))
	for _, p := range sheets {
		titles = append(titles, p.Title)
	}
	return titles, nil
}

func (c *Client) ReadTable(ctx context.Context, worksheet string) (*types.Table, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteTitle(worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(OpReadTable, worksheet, err)
	}

	t := &types.Table{}
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		if i == 0 {
			t.Headers = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func (c *Client) WriteHeaderCell(ctx context.Context, worksheet string, col int, header string) error {
	return c.writeOne(ctx, OpWriteHeader, worksheet, types.Cell{Row: 1, Col: col, Value: header})
}

func (c *Client) WriteCell(ctx context.Context, worksheet string, cell types.Cell) error {
	return c.writeOne(ctx, OpWriteCell, worksheet, cell)
}

func (c *Client) writeOne(ctx context.Context, op, worksheet string, cell types.Cell) error {
	if err := c.ensureGrid(ctx, worksheet, cell.Row, cell.Col); err != nil {
		return classify(op, worksheet, err)
	}
	vr := &gsheets.ValueRange{Values: [][]interface{}{{cell.Value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRange(worksheet, cell.Row, cell.Col), vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return classify(op, worksheet, err)
	}
	return nil
}

func (c *Client) WriteCells(ctx context.Context, worksheet string, cells []types.Cell) error {
	if len(cells) == 0 {
		return nil
	}
	maxRow, maxCol := 0, 0
	data := make([]*gsheets.ValueRange, 0, len(cells))
	for _, cell := range cells {
		maxRow = max(maxRow, cell.Row)
		maxCol = max(maxCol, cell.Col)
		data = append(data, &gsheets.ValueRange{
			Range:  cellRange(worksheet, cell.Row, cell.Col),
			Values: [][]interface{}{{cell.Value}},
		})
	}
	if err := c.ensureGrid(ctx, worksheet, maxRow, maxCol); err != nil {
		return classify(OpWriteCells, worksheet, err)
	}

	req := &gsheets.BatchUpdateValuesRequest{ValueInputOption: valueInputOption, Data: data}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return classify(OpWriteCells, worksheet, err)
	}
	return nil
}

func (c *Client) ReplaceWorksheet(ctx context.Context, worksheet string, table *types.Table) error {
	values := make([][]interface{}, 0, len(table.Rows)+1)
	values = append(values, toRow(table.Headers))
	for _, row := range table.Rows {
		values = append(values, toRow(row))
	}

	props, err := c.findSheet(ctx, worksheet)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := c.addSheet(ctx, worksheet, max(len(values)+5, minNewRows), max(len(table.Headers)+5, minNewCols)); err != nil {
			return classify(OpReplaceWorksheet, worksheet, err)
		}
	case err != nil:
		return classify(OpReplaceWorksheet, worksheet, err)
	default:
		_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, quoteTitle(worksheet), &gsheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		if err != nil {
			return classify(OpReplaceWorksheet, worksheet, err)
		}
		if err := c.grow(ctx, props, len(values), len(table.Headers)); err != nil {
			return classify(OpReplaceWorksheet, worksheet, err)
		}
	}

	vr := &gsheets.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoteTitle(worksheet)+"!A1", vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return classify(OpReplaceWorksheet, worksheet, err)
	}
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func (c *Client) sheetProperties(ctx context.Context) ([]*gsheets.SheetProperties, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	props := make([]*gsheets.SheetProperties, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			props = append(props, s.Properties)
		}
	}
	return props, nil
}

func (c *Client) findSheet(ctx context.Context, worksheet string) (*gsheets.SheetProperties, error) {
	props, err := c.sheetProperties(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if p.Title == worksheet {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// ensureGrid appends rows and columns so that (row, col) lies inside the
// worksheet grid. The API rejects writes outside it.
func (c *Client) ensureGrid(ctx context.Context, worksheet string, row, col int) error {
	props, err := c.findSheet(ctx, worksheet)
	if err != nil {
		return err
	}
	return c.grow(ctx, props, row, col)
}

func (c *Client) grow(ctx context.Context, props *gsheets.SheetProperties, rows, cols int) error {
	var haveRows, haveCols int64
	if g := props.GridProperties; g != nil {
		haveRows, haveCols = g.RowCount, g.ColumnCount
	}

	var reqs []*gsheets.Request
	if extra := int64(rows) - haveRows; extra > 0 {
		reqs = append(reqs, &gsheets.Request{AppendDimension: &gsheets.AppendDimensionRequest{
			SheetId: props.SheetId, Dimension: "ROWS", Length: extra,
		}})
	}
	if extra := int64(cols) - haveCols; extra > 0 {
		reqs = append(reqs, &gsheets.Request{AppendDimension: &gsheets.AppendDimensionRequest{
			SheetId: props.SheetId, Dimension: "COLUMNS", Length: extra,
		}})
	}
	if len(reqs) == 0 {
		return nil
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).
		Do()
	return err
}

func (c *Client) addSheet(ctx context.Context, worksheet string, rows, cols int) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{Requests: []*gsheets.Request{{
		AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{
			Title: worksheet,
			GridProperties: &gsheets.GridProperties{
				RowCount:    int64(rows),
				ColumnCount: int64(cols),
			},
		}},
	}}}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	return err
}

// classify turns an API failure into a *Error. 429 is rate limiting; a
// range the API cannot parse names a missing worksheet.
func classify(op, worksheet string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return newError(op, worksheet, ErrNotFound)
	}
	e := newError(op, worksheet, err)
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests:
			e.RateLimited = true
		case gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"):
			e.Err = errors.Wrap(ErrNotFound, gerr.Message)
		}
	}
	return e
}
