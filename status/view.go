package status

import (
	"strconv"
	"strings"
)

const (
	unknown      = "Unknown"
	unknownMax   = "?"
	noIcon       = "No icon"
	stateOnline  = "Online"
	stateOffline = "Offline"
)

// View is the display form of a Response.
type View struct {
	Host    string `json:"host"`
	Motd    string `json:"motd,omitempty"`
	Players string `json:"players"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Online  bool   `json:"online"`
	Icon    string `json:"icon,omitempty"`
	HasIcon bool   `json:"has_icon"`
}

// NewView renders resp for display.
func NewView(resp *Response) View {
	v := View{
		Host:    hostText(resp),
		Motd:    motdText(resp.Motd),
		Players: playersText(resp.Players),
		Version: versionText(resp.Version),
		Status:  stateOffline,
		Online:  resp.Online,
		Icon:    resp.Icon,
		HasIcon: resp.Icon != "",
	}
	if resp.Online {
		v.Status = stateOnline
	}
	return v
}

// IconText returns the icon data URI or "No icon".
func (v View) IconText() string {
	if !v.HasIcon {
		return noIcon
	}
	return v.Icon
}

func hostText(resp *Response) string {
	host := resp.Hostname
	if host == "" {
		host = resp.IP
	}
	if host == "" {
		host = unknown
	}
	if resp.Port != 0 {
		host += ":" + strconv.Itoa(resp.Port)
	}
	return host
}

// clean lines win over raw ones whenever the API sent them.
func motdText(m *Motd) string {
	if m == nil {
		return ""
	}
	lines := m.Clean
	if lines == nil {
		lines = m.Raw
	}
	return strings.Join(lines, " ")
}

func playersText(p *Players) string {
	online, maxText := "0", unknownMax
	if p != nil {
		if p.Online != nil {
			online = strconv.Itoa(*p.Online)
		}
		if p.Max != nil {
			maxText = strconv.Itoa(*p.Max)
		}
	}
	return online + " / " + maxText
}

func versionText(v Version) string {
	if v == nil {
		return unknown
	}
	return strings.Join(v, ", ")
}
