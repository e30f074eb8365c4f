package division

// Division is one FACEIT hub the bot reports on.
type Division struct {
	Label string `validate:"required"`
	HubID string `validate:"required"`
}

// DefaultDivisions is the hub table used when no override is configured.
func DefaultDivisions() []Division {
	return []Division{
		{Label: "PL", HubID: "ac41cb6c-df11-4597-8391-9b79a0cdfff6"},
		{Label: "CL", HubID: "2c01f318-2c99-406c-af29-6e89dc8b8aa1"},
		{Label: "Division 1", HubID: "c25f2623-2d98-4d11-9b22-bbb80dab8510"},
		{Label: "Division 2", HubID: "47d463c5-692c-4357-9f19-aa2edf5ae3a9"},
	}
}
