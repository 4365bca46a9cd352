package domain

import "fmt"

// Flow is one payment lifecycle operation executed against a connector.
type Flow string

const (
	FlowAuthorize                Flow = "authorize"
	FlowCapture                  Flow = "capture"
	FlowVoid                     Flow = "void"
	FlowPSync                    Flow = "psync"
	FlowExecute                  Flow = "execute"
	FlowRSync                    Flow = "rsync"
	FlowSetupMandate             Flow = "setup_mandate"
	FlowAccessTokenAuth          Flow = "access_token_auth"
	FlowIncrementalAuthorization Flow = "incremental_authorization"
	FlowPreProcessing            Flow = "pre_processing"
	FlowCompleteAuthorize        Flow = "complete_authorize"
	FlowPaymentMethodToken       Flow = "payment_method_token"
	FlowSession                  Flow = "session"
)

var allFlows = []Flow{
	FlowAuthorize,
	FlowCapture,
	FlowVoid,
	FlowPSync,
	FlowExecute,
	FlowRSync,
	FlowSetupMandate,
	FlowAccessTokenAuth,
	FlowIncrementalAuthorization,
	FlowPreProcessing,
	FlowCompleteAuthorize,
	FlowPaymentMethodToken,
	FlowSession,
}

// AllFlows returns every flow in a stable order.
func AllFlows() []Flow {
	out := make([]Flow, len(allFlows))
	copy(out, allFlows)
	return out
}

func ParseFlow(s string) (Flow, error) {
	for _, f := range allFlows {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown flow %q", s)
}

// IsRepeatable reports whether sending the flow twice cannot move money twice.
func (f Flow) IsRepeatable() bool {
	return f == FlowPSync || f == FlowRSync || f == FlowAccessTokenAuth
}

// IsRefund reports whether the flow operates on a refund rather than a payment attempt.
func (f Flow) IsRefund() bool {
	return f == FlowExecute || f == FlowRSync
}
