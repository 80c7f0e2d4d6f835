package assist

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDispatcher records the last envelope and returns a canned response
type mockDispatcher struct {
	available bool
	response  string
	err       error
	calls     int
	last      dispatch.Envelope
}

func (m *mockDispatcher) Dispatch(ctx context.Context, env dispatch.Envelope) (string, error) {
	m.calls++
	m.last = env
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockDispatcher) Available() bool {
	return m.available
}

func TestTriageTicket_ParsesWellFormedResponse(t *testing.T) {
	mock := &mockDispatcher{
		available: true,
		response:  `{"suggestedCategory":"Hardware","suggestedPriority":"Média","suggestedSolution":"Verificar alimentação","isSecurityIncident":false}`,
	}
	service := NewService(mock)

	result, err := service.TriageTicket(context.Background(), "A impressora do 2º andar não liga", nil)
	require.NoError(t, err)
	assert.Equal(t, "Média", result.SuggestedPriority)
	assert.Equal(t, "Hardware", result.SuggestedCategory)
	assert.False(t, result.IsSecurityIncident)
	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, "application/json", mock.last.ResponseMIMEType)
	assert.NotNil(t, mock.last.ResponseSchema)
	assert.Contains(t, mock.last.Prompt, "A impressora do 2º andar não liga")
}

func TestTriageTicket_MalformedResponseReturnsDefault(t *testing.T) {
	mock := &mockDispatcher{available: true, response: "I cannot help with that."}
	service := NewService(mock)

	result, err := service.TriageTicket(context.Background(), "monitor avariado", nil)
	require.NoError(t, err)
	assert.Equal(t, "Geral", result.SuggestedCategory)
	assert.Equal(t, "Média", result.SuggestedPriority)
	assert.False(t, result.IsSecurityIncident)
}

func TestTriageTicket_InvalidEnumReturnsDefault(t *testing.T) {
	mock := &mockDispatcher{
		available: true,
		response:  `{"suggestedCategory":"Hardware","suggestedPriority":"Urgent","isSecurityIncident":true}`,
	}
	service := NewService(mock)

	result, err := service.TriageTicket(context.Background(), "servidor em baixo", nil)
	require.NoError(t, err)
	assert.Equal(t, "Geral", result.SuggestedCategory)
}

func TestTriageTicket_ContextIsTruncated(t *testing.T) {
	historical := make([]TicketSummary, 500)
	for i := range historical {
		historical[i] = TicketSummary{
			Title:    fmt.Sprintf("Ticket %d", i),
			Category: "Hardware",
			Priority: "Baixa",
		}
	}
	mock := &mockDispatcher{
		available: true,
		response:  `{"suggestedCategory":"Hardware","suggestedPriority":"Baixa","isSecurityIncident":false}`,
	}
	service := NewService(mock)

	_, err := service.TriageTicket(context.Background(), "rato sem pilhas", historical)
	require.NoError(t, err)
	assert.Equal(t, maxContextItems, strings.Count(mock.last.Prompt, "- ["))
}

func TestTriageTicket_TransportErrorPropagates(t *testing.T) {
	mock := &mockDispatcher{available: true, err: fmt.Errorf("relay returned status 502")}
	service := NewService(mock)

	result, err := service.TriageTicket(context.Background(), "sem rede", nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "502")
}

func TestTriageTicket_UnavailableSkipsDispatch(t *testing.T) {
	mock := &mockDispatcher{available: false}
	service := NewService(mock)

	_, err := service.TriageTicket(context.Background(), "teste", nil)
	require.Error(t, err)
	assert.Equal(t, 0, mock.calls)
}

func TestParseAlert_MalformedResponseReturnsParseFailed(t *testing.T) {
	mock := &mockDispatcher{available: true, response: "not json at all"}
	service := NewService(mock)

	raw := `<xml>legacy alert format</xml>`
	result, err := service.ParseAlert(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Parse Failed", result.Title)
	assert.Equal(t, raw, result.Description)
}

func TestParseAlert_WellFormedResponse(t *testing.T) {
	mock := &mockDispatcher{
		available: true,
		response: "```json\n" + `{"title":"Malware detected","description":"Trojan on PC-FIN-01","severity":"Alta","assetHint":"PC-FIN-01","alertType":"malware","source":"EDR"}` + "\n```",
	}
	service := NewService(mock)

	result, err := service.ParseAlert(context.Background(), `{"hostname":"PC-FIN-01"}`)
	require.NoError(t, err)
	assert.Equal(t, "Malware detected", result.Title)
	assert.Equal(t, "Alta", result.Severity)
	assert.Equal(t, "PC-FIN-01", result.AssetHint)
}

func TestLookupVulnerability_MalformedResponseReportsNotFound(t *testing.T) {
	mock := &mockDispatcher{available: true, response: `{"cve": 12345}`}
	service := NewService(mock)

	result, err := service.LookupVulnerability(context.Background(), "ExampleApp", "1.2.3")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestParseCommand_MalformedResponseReturnsUnknown(t *testing.T) {
	mock := &mockDispatcher{available: true, response: "{broken"}
	service := NewService(mock)

	result, err := service.ParseCommand(context.Background(), "faz qualquer coisa")
	require.NoError(t, err)
	assert.Equal(t, "unknown", result.Intent)
	assert.Zero(t, result.Confidence)
}

func TestParseCommand_WellFormedResponse(t *testing.T) {
	mock := &mockDispatcher{
		available: true,
		response:  `{"intent":"create_ticket","confidence":0.92,"args":{"title":"impressora avariada"}}`,
	}
	service := NewService(mock)

	result, err := service.ParseCommand(context.Background(), "cria um ticket para a impressora avariada")
	require.NoError(t, err)
	assert.Equal(t, "create_ticket", result.Intent)
	assert.InDelta(t, 0.92, result.Confidence, 0.001)
	assert.Equal(t, "impressora avariada", result.Args["title"])
}

func TestExtractDeviceFromImage_ContractErrorPropagates(t *testing.T) {
	mock := &mockDispatcher{available: true, response: "cannot read the label"}
	service := NewService(mock)

	image := dispatch.InlineImage{DataBase64: "aGVsbG8=", MIMEType: "image/jpeg"}
	result, err := service.ExtractDeviceFromImage(context.Background(), image)
	require.Error(t, err)
	assert.Nil(t, result)

	var contractErr *schema.ContractError
	assert.ErrorAs(t, err, &contractErr)
}

func TestExtractDeviceFromImage_SendsImage(t *testing.T) {
	mock := &mockDispatcher{
		available: true,
		response:  `{"deviceType":"printer","manufacturer":"HP","model":"LaserJet Pro","serialNumber":"CN12345"}`,
	}
	service := NewService(mock)

	image := dispatch.InlineImage{DataBase64: "aGVsbG8=", MIMEType: "image/jpeg"}
	result, err := service.ExtractDeviceFromImage(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "printer", result.DeviceType)
	assert.Equal(t, "CN12345", result.SerialNumber)
	require.Len(t, mock.last.Images, 1)
	assert.Equal(t, "image/jpeg", mock.last.Images[0].MIMEType)
}

func TestDraftNIS2Notification_MalformedResponseReturnsEmptyDraft(t *testing.T) {
	mock := &mockDispatcher{available: true, response: "[]"}
	service := NewService(mock)

	draft, err := service.DraftNIS2Notification(context.Background(), IncidentReport{
		Title:       "Ransomware no servidor de ficheiros",
		Description: "Ficheiros cifrados detetados",
		Severity:    "Crítica",
	})
	require.NoError(t, err)
	assert.Empty(t, draft.Summary)
}

func TestAnalyzeRisk_WellFormedResponse(t *testing.T) {
	mock := &mockDispatcher{
		available: true,
		response:  `{"riskLevel":"Alta","findings":["Windows 7 ainda em uso"],"recommendations":["Atualizar sistemas operativos"]}`,
	}
	service := NewService(mock)

	result, err := service.AnalyzeRisk(context.Background(), []EquipmentSummary{
		{NetworkName: "PC-FIN-01", Type: "desktop", OS: "Windows 7", LastSeen: "2026-08-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alta", result.RiskLevel)
	assert.Len(t, result.Findings, 1)
}

func TestSummarizeResolution_MalformedResponseReturnsEmpty(t *testing.T) {
	mock := &mockDispatcher{available: true, response: "thanks!"}
	service := NewService(mock)

	result, err := service.SummarizeResolution(context.Background(), "VPN intermitente", []ThreadEntry{
		{Author: "user", Message: "VPN cai de 10 em 10 minutos"},
		{Author: "tech", Message: "MTU ajustado, resolvido"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Summary)
}
