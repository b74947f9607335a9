package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproval_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Approval
	}{
		{`"yes"`, ApprovalYes},
		{`"YES"`, ApprovalYes},
		{`"no"`, ApprovalNo},
		{`"pending"`, ApprovalNo},
		{`null`, ApprovalNo},
		{`true`, ApprovalYes},
		{`false`, ApprovalNo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a Approval
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.want, a)
		})
	}

	var a Approval
	assert.Error(t, json.Unmarshal([]byte(`{}`), &a))
}

func TestApproval_MissingFieldDecodesToNo(t *testing.T) {
	var agent Agent
	require.NoError(t, json.Unmarshal([]byte(`{"agent_id":"a1","admin_approved":null}`), &agent))
	assert.Equal(t, ApprovalNo, agent.AdminApproved)
	assert.False(t, agent.AdminApproved.Approved())
}

func TestISV_Counters(t *testing.T) {
	var isv ISV
	require.NoError(t, json.Unmarshal([]byte(`{"isv_id":"i1","agent_count":"5","approved_agent_count":3}`), &isv))
	assert.Equal(t, FlexInt(5), isv.AgentCount)
	assert.Equal(t, FlexInt(3), isv.ApprovedAgentCount)
	assert.True(t, isv.CountsConsistent())

	isv.ApprovedAgentCount = 6
	assert.False(t, isv.CountsConsistent())

	assert.Error(t, json.Unmarshal([]byte(`{"agent_count":"many"}`), &isv))
}

func TestEnquiryStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, EnquiryNew.CanTransitionTo(EnquiryRead))
	assert.True(t, EnquiryRead.CanTransitionTo(EnquiryRead))
	assert.False(t, EnquiryRead.CanTransitionTo(EnquiryNew))
}

func TestParseResource(t *testing.T) {
	r, err := ParseResource(" ISVs ")
	require.NoError(t, err)
	assert.Equal(t, ResourceISVs, r)

	_, err = ParseResource("listings")
	assert.Error(t, err)
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		in   string
		want Ordering
	}{
		{`3`, Ordering{Value: 3, Set: true}},
		{`"7"`, Ordering{Value: 7, Set: true}},
		{`"na"`, Ordering{}},
		{`null`, Ordering{}},
		{`""`, Ordering{}},
	}
	for _, tt := range tests {
		var o Ordering
		require.NoError(t, json.Unmarshal([]byte(tt.in), &o), tt.in)
		assert.Equal(t, tt.want, o, tt.in)
	}

	out, err := json.Marshal(Agent{AgentID: "a1", Ordering: Ordering{Value: 2, Set: true}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"agents_ordering":2`)
}
