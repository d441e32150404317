package status

import (
	"bytes"
	"encoding/json"
)

// Response is the subset of the status API answer mcstatus understands.
// Fields the API omits stay nil so the view can tell "absent" from "zero".
type Response struct {
	Online   bool     `json:"online"`
	IP       string   `json:"ip,omitempty"`
	Port     int      `json:"port,omitempty"`
	Hostname string   `json:"hostname,omitempty"`
	Motd     *Motd    `json:"motd,omitempty"`
	Players  *Players `json:"players,omitempty"`
	Version  Version  `json:"version,omitempty"`
	Icon     string   `json:"icon,omitempty"`
}

type Motd struct {
	Raw   []string `json:"raw,omitempty"`
	Clean []string `json:"clean,omitempty"`
	HTML  []string `json:"html,omitempty"`
}

type Players struct {
	Online *int `json:"online,omitempty"`
	Max    *int `json:"max,omitempty"`
}

// Version holds the server version. The API sends either a string or an
// array of strings; both decode into a slice. Nil means the field was absent.
type Version []string

func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Version{s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*v = list
	return nil
}
