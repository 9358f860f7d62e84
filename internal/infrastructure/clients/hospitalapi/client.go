package hospitalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hvqdigital/agenda-console/backend/pkg/utils"
)

// Client is the raw boundary to the hospital master-data API. Rows come back as
// heterogeneous records; normalization into domain entities happens in the
// remote adapters, not here.
type Client interface {
	ListDoctors(ctx context.Context) ([]utils.RawRecord, error)
	ListDoctorsBySpecialty(ctx context.Context, specialty string) ([]utils.RawRecord, error)
	ListDoctorsByName(ctx context.Context, name string) ([]utils.RawRecord, error)
	GetDoctorByItem(ctx context.Context, itemCode string) (utils.RawRecord, error)
	ListDays(ctx context.Context) ([]utils.RawRecord, error)
	ListBuildings(ctx context.Context) ([]utils.RawRecord, error)
	ListFloors(ctx context.Context, buildingCode string) ([]utils.RawRecord, error)
	ListOffices(ctx context.Context) ([]utils.RawRecord, error)
	// ListSpecialties returns bare labels or records depending on the upstream
	// view, so elements stay untyped.
	ListSpecialties(ctx context.Context) ([]any, error)
	ListAgendas(ctx context.Context, doctorID string) ([]utils.RawRecord, error)
	PatchAgendaField(ctx context.Context, agendaID, storageField string, value any) (utils.RawRecord, error)
	CreateAgenda(ctx context.Context, payload map[string]any) (utils.RawRecord, error)
	Health(ctx context.Context) error
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// envelope is the standard hospital API response body: {"data": ...}. Some
// endpoints return the payload bare, so both shapes are accepted.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func NewClient(baseURL string, timeout time.Duration) *HTTPClient {
	trimmed := strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) ListDoctors(ctx context.Context) ([]utils.RawRecord, error) {
	return c.getList(ctx, "/medicos")
}

func (c *HTTPClient) ListDoctorsBySpecialty(ctx context.Context, specialty string) ([]utils.RawRecord, error) {
	return c.getList(ctx, "/medicos/especialidad/"+url.PathEscape(specialty))
}

func (c *HTTPClient) ListDoctorsByName(ctx context.Context, name string) ([]utils.RawRecord, error) {
	return c.getList(ctx, "/medicos/nombre/"+url.PathEscape(name))
}

func (c *HTTPClient) GetDoctorByItem(ctx context.Context, itemCode string) (utils.RawRecord, error) {
	if strings.TrimSpace(itemCode) == "" {
		return nil, fmt.Errorf("item code is required")
	}
	return c.getRecord(ctx, "/medicos/item/"+url.PathEscape(itemCode))
}

func (c *HTTPClient) ListDays(ctx context.Context) ([]utils.RawRecord, error) {
	return c.getList(ctx, "/catalogos/dias")
}

func (c *HTTPClient) ListBuildings(ctx context.Context) ([]utils.RawRecord, error) {
	return c.getList(ctx, "/catalogos/edificios")
}

func (c *HTTPClient) ListFloors(ctx context.Context, buildingCode string) ([]utils.RawRecord, error) {
	if strings.TrimSpace(buildingCode) == "" {
		return nil, fmt.Errorf("building code is required")
	}
	return c.getList(ctx, "/catalogos/edificios/"+url.PathEscape(buildingCode)+"/pisos")
}

func (c *HTTPClient) ListOffices(ctx context.Context) ([]utils.RawRecord, error) {
	return c.getList(ctx, "/catalogos/consultorios")
}

func (c *HTTPClient) ListSpecialties(ctx context.Context) ([]any, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/especialidades", nil, &raw); err != nil {
		return nil, err
	}
	var items []any
	if err := json.Unmarshal(unwrap(raw), &items); err != nil {
		return nil, fmt.Errorf("malformed hospital api response: %w", err)
	}
	return items, nil
}

func (c *HTTPClient) ListAgendas(ctx context.Context, doctorID string) ([]utils.RawRecord, error) {
	parsed, err := url.Parse(c.baseURL + "/agendas")
	if err != nil {
		return nil, err
	}
	query := parsed.Query()
	if doctorID != "" {
		query.Set("medico", doctorID)
	}
	parsed.RawQuery = query.Encode()

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, parsed.String(), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func (c *HTTPClient) PatchAgendaField(ctx context.Context, agendaID, storageField string, value any) (utils.RawRecord, error) {
	if strings.TrimSpace(agendaID) == "" {
		return nil, fmt.Errorf("agenda id is required")
	}
	if strings.TrimSpace(storageField) == "" {
		return nil, fmt.Errorf("storage field is required")
	}
	body, err := json.Marshal(map[string]any{storageField: value})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/agendas/" + url.PathEscape(agendaID)
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, bytes.NewReader(body), &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (c *HTTPClient) CreateAgenda(ctx context.Context, payload map[string]any) (utils.RawRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/agendas", bytes.NewReader(body), &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (c *HTTPClient) Health(ctx context.Context) error {
	var out map[string]any
	return c.doJSON(ctx, http.MethodGet, c.baseURL+"/health", nil, &out)
}

func (c *HTTPClient) getList(ctx context.Context, path string) ([]utils.RawRecord, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func (c *HTTPClient) getRecord(ctx context.Context, path string) (utils.RawRecord, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hospital api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed hospital api response: %w", err)
	}

	return nil
}

func decodeList(raw json.RawMessage) ([]utils.RawRecord, error) {
	payload := unwrap(raw)
	var records []utils.RawRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("malformed hospital api response: %w", err)
	}
	return records, nil
}

func decodeRecord(raw json.RawMessage) (utils.RawRecord, error) {
	payload := unwrap(raw)
	var record utils.RawRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		// Some views return a single-element list for record endpoints.
		var records []utils.RawRecord
		if listErr := json.Unmarshal(payload, &records); listErr == nil && len(records) > 0 {
			return records[0], nil
		}
		return nil, fmt.Errorf("malformed hospital api response: %w", err)
	}
	return record, nil
}

func unwrap(raw json.RawMessage) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}
