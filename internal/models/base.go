package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Approval is the admin approval gate shared by agents, ISVs and resellers.
type Approval string

const (
	ApprovalYes Approval = "yes"
	ApprovalNo  Approval = "no"
)

// Approved reports whether the record is publicly visible.
func (a Approval) Approved() bool {
	return a == ApprovalYes
}

// UnmarshalJSON normalizes the backend value. Anything other than "yes"
// (including null or a missing field) is treated as "no".
func (a *Approval) UnmarshalJSON(b []byte) error {
	var s string
	if bytes.Equal(b, []byte("null")) {
		*a = ApprovalNo
		return nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		var flag bool
		if boolErr := json.Unmarshal(b, &flag); boolErr != nil {
			return fmt.Errorf("invalid admin_approved value %s: %w", string(b), err)
		}
		s = map[bool]string{true: "yes", false: "no"}[flag]
	}
	if strings.EqualFold(strings.TrimSpace(s), string(ApprovalYes)) {
		*a = ApprovalYes
	} else {
		*a = ApprovalNo
	}
	return nil
}

// FlexInt decodes counters that the backend sends either as numbers or numeric strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		i, convErr := strconv.ParseFloat(n.String(), 64)
		if convErr != nil {
			return fmt.Errorf("invalid counter %s: %w", string(b), convErr)
		}
		*f = FlexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid counter %s: %w", string(b), err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid counter %q: %w", s, err)
	}
	*f = FlexInt(i)
	return nil
}

// Resource names the admin-managed collections.
type Resource string

const (
	ResourceAgents    Resource = "agents"
	ResourceISVs      Resource = "isvs"
	ResourceResellers Resource = "resellers"
	ResourceEnquiries Resource = "enquiries"
)

// ParseResource validates a resource name coming from a URL or flag.
func ParseResource(s string) (Resource, error) {
	switch r := Resource(strings.ToLower(strings.TrimSpace(s))); r {
	case ResourceAgents, ResourceISVs, ResourceResellers, ResourceEnquiries:
		return r, nil
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Ordering is a catalog sort position. "na", null and non-numeric values mean unset.
type Ordering struct {
	Value int
	Set   bool
}

func (o *Ordering) UnmarshalJSON(b []byte) error {
	*o = Ordering{}
	var f FlexInt
	if err := f.UnmarshalJSON(b); err != nil {
		// "na" and other placeholders leave the position unset.
		return nil
	}
	if bytes.Equal(b, []byte("null")) || bytes.Equal(bytes.TrimSpace(b), []byte(`""`)) {
		return nil
	}
	*o = Ordering{Value: int(f), Set: true}
	return nil
}

func (o Ordering) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}
