package sheets

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/sheets/v4"

	"github.com/workspacemcp/workspace-mcp/internal/middleware"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/response"
	"github.com/workspacemcp/workspace-mcp/internal/pkg/validate"
	"github.com/workspacemcp/workspace-mcp/internal/services"
)

// --- list_spreadsheets ---

type ListSpreadsheetsInput struct {
	UserEmail string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	MaxFiles  int    `json:"max_files,omitempty" jsonschema_description:"Maximum number of spreadsheets to return (default 25)"`
}

type SpreadsheetSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modified_time"`
	WebViewLink  string `json:"web_view_link"`
}

type ListSpreadsheetsOutput struct {
	Spreadsheets []SpreadsheetSummary `json:"spreadsheets"`
}

func createListSpreadsheetsHandler(factory *services.Factory) mcp.ToolHandlerFor[ListSpreadsheetsInput, ListSpreadsheetsOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListSpreadsheetsInput) (*mcp.CallToolResult, ListSpreadsheetsOutput, error) {
		if input.MaxFiles <= 0 {
			input.MaxFiles = 25
		}

		// Spreadsheets are Drive files, so discovery goes through the Drive API.
		drv, err := factory.Drive(ctx, input.UserEmail)
		if err != nil {
			return nil, ListSpreadsheetsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		result, err := drv.Files.List().
			Q(fmt.Sprintf("mimeType = '%s' and trashed = false", spreadsheetMimeType)).
			PageSize(int64(input.MaxFiles)).
			OrderBy("modifiedTime desc").
			Fields("files(id, name, modifiedTime, webViewLink)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx).Do()
		if err != nil {
			return nil, ListSpreadsheetsOutput{}, middleware.HandleGoogleAPIError(err)
		}

		summaries := make([]SpreadsheetSummary, 0, len(result.Files))
		rb := response.New()
		rb.Header("Spreadsheets")
		rb.KeyValue("Count", len(result.Files))
		rb.Blank()

		for _, f := range result.Files {
			summaries = append(summaries, SpreadsheetSummary{
				ID:           f.Id,
				Name:         f.Name,
				ModifiedTime: f.ModifiedTime,
				WebViewLink:  f.WebViewLink,
			})
			rb.Item("%s", f.Name)
			rb.Line("    ID: %s | Modified: %s", f.Id, f.ModifiedTime)
		}

		return rb.TextResult(), ListSpreadsheetsOutput{Spreadsheets: summaries}, nil
	}
}

// --- get_spreadsheet_info ---

type GetSpreadsheetInfoInput struct {
	UserEmail     string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"required" jsonschema_description:"The ID of the spreadsheet"`
}

type SheetInfo struct {
	SheetID  int64  `json:"sheet_id"`
	Title    string `json:"title"`
	RowCount int64  `json:"row_count"`
	ColCount int64  `json:"col_count"`
}

type GetSpreadsheetInfoOutput struct {
	Title  string      `json:"title"`
	URL    string      `json:"url"`
	Sheets []SheetInfo `json:"sheets"`
}

func createGetSpreadsheetInfoHandler(factory *services.Factory) mcp.ToolHandlerFor[GetSpreadsheetInfoInput, GetSpreadsheetInfoOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetSpreadsheetInfoInput) (*mcp.CallToolResult, GetSpreadsheetInfoOutput, error) {
		if err := validate.DriveID(input.SpreadsheetID); err != nil {
			return nil, GetSpreadsheetInfoOutput{}, err
		}

		srv, err := factory.Sheets(ctx, input.UserEmail)
		if err != nil {
			return nil, GetSpreadsheetInfoOutput{}, middleware.HandleGoogleAPIError(err)
		}

		ss, err := srv.Spreadsheets.Get(input.SpreadsheetID).
			Fields("spreadsheetId, spreadsheetUrl, properties.title, sheets.properties").
			Context(ctx).Do()
		if err != nil {
			return nil, GetSpreadsheetInfoOutput{}, middleware.HandleGoogleAPIError(err)
		}

		infos := make([]SheetInfo, 0, len(ss.Sheets))
		rb := response.New()
		rb.Header("Spreadsheet Info")
		rb.KeyValue("Title", ss.Properties.Title)
		rb.KeyValue("ID", ss.SpreadsheetId)
		rb.KeyValue("URL", ss.SpreadsheetUrl)
		rb.Blank()
		rb.Section("Sheets")

		for _, s := range ss.Sheets {
			si := sheetPropertiesToInfo(s.Properties)
			infos = append(infos, si)
			rb.Item("%s (ID: %d, %dx%d)", si.Title, si.SheetID, si.RowCount, si.ColCount)
		}

		return rb.TextResult(), GetSpreadsheetInfoOutput{
			Title:  ss.Properties.Title,
			URL:    ss.SpreadsheetUrl,
			Sheets: infos,
		}, nil
	}
}

// --- read_sheet_values ---

type ReadSheetValuesInput struct {
	UserEmail     string `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"required" jsonschema_description:"The ID of the spreadsheet"`
	RangeName     string `json:"range_name,omitempty" jsonschema_description:"Range to read in A1 notation (e.g. Sheet1!A1:D10). Default: A1:Z1000"`
}

type ReadSheetValuesOutput struct {
	Values [][]interface{} `json:"values"`
	Range  string          `json:"range"`
}

func createReadSheetValuesHandler(factory *services.Factory) mcp.ToolHandlerFor[ReadSheetValuesInput, ReadSheetValuesOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ReadSheetValuesInput) (*mcp.CallToolResult, ReadSheetValuesOutput, error) {
		if err := validate.DriveID(input.SpreadsheetID); err != nil {
			return nil, ReadSheetValuesOutput{}, err
		}

		srv, err := factory.Sheets(ctx, input.UserEmail)
		if err != nil {
			return nil, ReadSheetValuesOutput{}, middleware.HandleGoogleAPIError(err)
		}

		rangeName := input.RangeName
		if rangeName == "" {
			rangeName = defaultReadRange
		}

		result, err := srv.Spreadsheets.Values.Get(input.SpreadsheetID, rangeName).Context(ctx).Do()
		if err != nil {
			return nil, ReadSheetValuesOutput{}, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Sheet Values")
		rb.KeyValue("Spreadsheet", input.SpreadsheetID)
		rb.KeyValue("Range", result.Range)
		rb.KeyValue("Rows", len(result.Values))
		rb.Blank()

		for i, row := range result.Values {
			rb.Line("Row %d: %s", i+1, formatRow(row))
		}

		return rb.TextResult(), ReadSheetValuesOutput{Values: result.Values, Range: result.Range}, nil
	}
}

// --- modify_sheet_values ---

type ModifySheetValuesInput struct {
	UserEmail        string     `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	SpreadsheetID    string     `json:"spreadsheet_id" jsonschema:"required" jsonschema_description:"The ID of the spreadsheet"`
	RangeName        string     `json:"range_name" jsonschema:"required" jsonschema_description:"Range to modify in A1 notation (e.g. Sheet1!A1:D10)"`
	Values           [][]string `json:"values,omitempty" jsonschema_description:"2D array of values to write. Required unless clear_values is true."`
	ValueInputOption string     `json:"value_input_option,omitempty" jsonschema_description:"How to interpret input: RAW or USER_ENTERED (default USER_ENTERED)"`
	ClearValues      bool       `json:"clear_values,omitempty" jsonschema_description:"If true clears the range instead of writing values"`
}

func createModifySheetValuesHandler(factory *services.Factory) mcp.ToolHandlerFor[ModifySheetValuesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ModifySheetValuesInput) (*mcp.CallToolResult, any, error) {
		if err := validate.DriveID(input.SpreadsheetID); err != nil {
			return nil, nil, err
		}

		srv, err := factory.Sheets(ctx, input.UserEmail)
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()

		if input.ClearValues {
			_, err := srv.Spreadsheets.Values.Clear(input.SpreadsheetID, input.RangeName, &sheets.ClearValuesRequest{}).
				Context(ctx).Do()
			if err != nil {
				return nil, nil, middleware.HandleGoogleAPIError(err)
			}

			rb.Header("Values Cleared")
			rb.KeyValue("Spreadsheet", input.SpreadsheetID)
			rb.KeyValue("Range", input.RangeName)
			return rb.TextResult(), nil, nil
		}

		if len(input.Values) == 0 {
			return nil, nil, fmt.Errorf("values are required unless clear_values is true")
		}

		valueInputOption := input.ValueInputOption
		if valueInputOption == "" {
			valueInputOption = "USER_ENTERED"
		}

		vr := &sheets.ValueRange{Values: rowsToInterface(input.Values)}

		result, err := srv.Spreadsheets.Values.Update(input.SpreadsheetID, input.RangeName, vr).
			ValueInputOption(valueInputOption).
			Context(ctx).Do()
		if err != nil {
			return nil, nil, middleware.HandleGoogleAPIError(err)
		}

		rb.Header("Values Updated")
		rb.KeyValue("Spreadsheet", input.SpreadsheetID)
		rb.KeyValue("Range", result.UpdatedRange)
		rb.KeyValue("Updated rows", result.UpdatedRows)
		rb.KeyValue("Updated columns", result.UpdatedColumns)
		rb.KeyValue("Updated cells", result.UpdatedCells)
		return rb.TextResult(), nil, nil
	}
}

// --- create_spreadsheet ---

type CreateSpreadsheetInput struct {
	UserEmail  string   `json:"user_google_email" jsonschema:"required" jsonschema_description:"The user's Google email address"`
	Title      string   `json:"title" jsonschema:"required" jsonschema_description:"Title for the new spreadsheet"`
	SheetNames []string `json:"sheet_names,omitempty" jsonschema_description:"Sheet tab names to create (default: one sheet with default name)"`
}

type CreateSpreadsheetOutput struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
}

func createCreateSpreadsheetHandler(factory *services.Factory) mcp.ToolHandlerFor[CreateSpreadsheetInput, CreateSpreadsheetOutput] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CreateSpreadsheetInput) (*mcp.CallToolResult, CreateSpreadsheetOutput, error) {
		srv, err := factory.Sheets(ctx, input.UserEmail)
		if err != nil {
			return nil, CreateSpreadsheetOutput{}, middleware.HandleGoogleAPIError(err)
		}

		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title: input.Title,
			},
		}
		for _, name := range input.SheetNames {
			spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
				Properties: &sheets.SheetProperties{Title: name},
			})
		}

		created, err := srv.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return nil, CreateSpreadsheetOutput{}, middleware.HandleGoogleAPIError(err)
		}

		rb := response.New()
		rb.Header("Spreadsheet Created")
		rb.KeyValue("Title", created.Properties.Title)
		rb.KeyValue("ID", created.SpreadsheetId)
		rb.KeyValue("URL", created.SpreadsheetUrl)
		if len(created.Sheets) > 0 {
			rb.Blank()
			rb.Section("Sheets")
			for _, s := range created.Sheets {
				rb.Item("%s", s.Properties.Title)
			}
		}

		return rb.TextResult(), CreateSpreadsheetOutput{
			SpreadsheetID: created.SpreadsheetId,
			Title:         created.Properties.Title,
			URL:           created.SpreadsheetUrl,
		}, nil
	}
}
