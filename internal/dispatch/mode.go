package dispatch

import (
	"net/http"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/config"
)

// Kind names the operating mode
type Kind string

const (
	// KindDirect means the gateway holds a provider credential and calls the
	// AI provider itself
	KindDirect Kind = "direct"
	// KindProxy means every call is relayed through a trusted backend function
	// that holds the credential
	KindProxy Kind = "proxy"
	// KindDisabled means neither a credential nor a relay is configured; every
	// AI feature reports itself unavailable
	KindDisabled Kind = "disabled"
)

// Mode is the dispatch target, selected once at startup from the resolved
// settings and passed explicitly to the Dispatcher so no hidden global decides
// where a call goes.
type Mode struct {
	kind   Kind
	direct *GeminiClient
	proxy  *RelayClient
}

// SelectMode builds the operating mode from AI settings. A relay URL wins only
// when no local credential is present; settings validation rejects having both.
func SelectMode(ai config.AISettings, httpClient *http.Client) Mode {
	switch {
	case ai.Credential != "":
		return Mode{
			kind:   KindDirect,
			direct: NewGeminiClient(ai.ProviderBaseURL, ai.Credential, httpClient),
		}
	case ai.RelayURL != "":
		return Mode{
			kind:  KindProxy,
			proxy: NewRelayClient(ai.RelayURL, ai.RelayToken, httpClient),
		}
	default:
		return Mode{kind: KindDisabled}
	}
}

// Kind returns the selected mode kind
func (m Mode) Kind() Kind {
	return m.kind
}

// Available reports whether AI calls can be made. Proxy mode is always
// available (the backend is trusted to hold its own credential); direct mode
// requires the non-empty local credential it was built from. This can only
// answer false, never fail.
func (m Mode) Available() bool {
	return m.kind == KindDirect || m.kind == KindProxy
}

func (m Mode) String() string {
	return string(m.kind)
}
