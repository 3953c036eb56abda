package shipping

import (
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Speed represents the requested service speed for a shipment
type Speed string

const (
	SpeedEconomy   Speed = "economy"
	SpeedStandard  Speed = "standard"
	SpeedExpedited Speed = "expedited"
)

// String returns the string representation of the speed
func (s Speed) String() string {
	return string(s)
}

// IsValid returns true if the speed is one of the supported values
func (s Speed) IsValid() bool {
	switch s {
	case SpeedEconomy, SpeedStandard, SpeedExpedited:
		return true
	default:
		return false
	}
}

// Mode represents the shipment direction
type Mode string

const (
	// ModeOutbound is a forward shipment from retailer to customer
	ModeOutbound Mode = "outbound"
	// ModeInbound is a return shipment back to the retailer
	ModeInbound Mode = "inbound"
)

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// IsValid returns true if the mode is one of the supported values
func (m Mode) IsValid() bool {
	switch m {
	case ModeOutbound, ModeInbound:
		return true
	default:
		return false
	}
}

// Dimensions holds package dimensions in inches
type Dimensions struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
}

// Volume returns the package volume in cubic inches
func (d Dimensions) Volume() decimal.Decimal {
	return d.Length.Mul(d.Width).Mul(d.Height)
}

// ShipmentRequest describes one shipment to be quoted.
// Requests are transient: constructed per call and never persisted.
type ShipmentRequest struct {
	DestinationZip string
	WeightOz       decimal.Decimal
	Dimensions     *Dimensions
	Speed          Speed
	Mode           Mode
}

// Validate checks the request against the domain constraints
func (r ShipmentRequest) Validate() error {
	if r.DestinationZip == "" {
		return shared.NewDomainError("INVALID_INPUT", "destination zip is required")
	}
	if r.WeightOz.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "weight cannot be negative")
	}
	if !r.Speed.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "speed must be one of: economy, standard, expedited")
	}
	if !r.Mode.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "mode must be one of: outbound, inbound")
	}
	if r.Dimensions != nil {
		if r.Dimensions.Length.IsNegative() || r.Dimensions.Width.IsNegative() || r.Dimensions.Height.IsNegative() {
			return shared.NewDomainError("INVALID_INPUT", "dimensions cannot be negative")
		}
	}
	return nil
}
