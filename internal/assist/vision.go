package assist

import (
	"context"

	"github.com/aimanagersix/go-itsm-ai-gateway/internal/dispatch"
	"github.com/aimanagersix/go-itsm-ai-gateway/internal/schema"
)

// DeviceDetails holds the fields read from a photo of a device label
type DeviceDetails struct {
	DeviceType   string `json:"deviceType"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	SerialNumber string `json:"serialNumber"`
}

var deviceShape = &schema.Object{
	Properties: map[string]schema.Field{
		"deviceType":   {Type: schema.TypeString, Description: "Device type, e.g. laptop, printer, switch"},
		"manufacturer": {Type: schema.TypeString, Description: "Manufacturer name"},
		"model":        {Type: schema.TypeString, Description: "Model identifier"},
		"serialNumber": {Type: schema.TypeString, Description: "Serial number read from the label"},
	},
	Required: []string{"deviceType"},
}

// ExtractDeviceFromImage reads device details from a photo of an equipment
// label. The result feeds inventory registration directly, so contract
// violations propagate to the caller instead of degrading to a default.
func (s *Service) ExtractDeviceFromImage(ctx context.Context, image dispatch.InlineImage) (*DeviceDetails, error) {
	prompt := "Read the device label in this photo and extract the device type, " +
		"manufacturer, model and serial number. Leave fields you cannot read empty."

	var result DeviceDetails
	if _, err := s.invoke(ctx, prompt, []dispatch.InlineImage{image}, deviceShape, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
