package model

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// ComputeEnvironment is an execution slot advertised by a Provider.
type ComputeEnvironment struct {
	ID              string  `json:"id"`
	CPUNumber       int     `json:"cpuNumber"`
	CPUType         string  `json:"cpuType"`
	GPUNumber       int     `json:"gpuNumber"`
	GPUType         string  `json:"gpuType"`
	RAMGB           float64 `json:"ramGB"`
	DiskGB          float64 `json:"diskGB"`
	PriceMin        float64 `json:"priceMin"`
	Desc            string  `json:"desc"`
	CurrentJobs     int     `json:"currentJobs"`
	MaxJobs         int     `json:"maxJobs"`
	ConsumerAddress string  `json:"consumerAddress"`
	StorageExpiry   int64   `json:"storageExpiry"`
	MaxJobDuration  int64   `json:"maxJobDuration"`
	LastSeen        float64 `json:"lastSeen"`
	Free            bool    `json:"free"`
}

// ComputeAsset references a dataset service taking part in a compute job.
// TransferTxID is the order transaction proving payment.
type ComputeAsset struct {
	DocumentID   string         `json:"documentId"`
	ServiceID    string         `json:"serviceId"`
	TransferTxID string         `json:"transferTxId,omitempty"`
	UserData     map[string]any `json:"userdata,omitempty"`
}

// ComputeAlgorithm references the algorithm run by a compute job.
type ComputeAlgorithm struct {
	DocumentID     string             `json:"documentId,omitempty"`
	ServiceID      string             `json:"serviceId,omitempty"`
	TransferTxID   string             `json:"transferTxId,omitempty"`
	Meta           *AlgorithmMetadata `json:"meta,omitempty"`
	AlgoCustomData map[string]any     `json:"algocustomdata,omitempty"`
	UserData       map[string]any     `json:"userdata,omitempty"`
}

// ProviderFees is the fee quote signed by the Provider. It is forwarded as is
// to the datatoken's order functions.
type ProviderFees struct {
	ProviderFeeAddress string  `json:"providerFeeAddress"`
	ProviderFeeToken   string  `json:"providerFeeToken"`
	ProviderFeeAmount  *Amount `json:"providerFeeAmount"`
	ProviderData       string  `json:"providerData"`
	V                  uint8   `json:"v"`
	R                  string  `json:"r"`
	S                  string  `json:"s"`
	ValidUntil         int64   `json:"validUntil"`
}

// Owed reports whether the fee carries a non-zero amount.
func (f *ProviderFees) Owed() bool {
	return f != nil && f.ProviderFeeAmount != nil && f.ProviderFeeAmount.Sign() > 0
}

// ConsumeMarketFee is the optional marketplace fee paid with an order.
type ConsumeMarketFee struct {
	ConsumeMarketFeeAddress string  `json:"consumeMarketFeeAddress"`
	ConsumeMarketFeeToken   string  `json:"consumeMarketFeeToken"`
	ConsumeMarketFeeAmount  *Amount `json:"consumeMarketFeeAmount"`
}

// ProviderComputeInitialize is the Provider's answer for one asset of a
// compute request: an optional still-valid order and an optional fee quote.
type ProviderComputeInitialize struct {
	Datatoken   string        `json:"datatoken"`
	ValidOrder  string        `json:"validOrder,omitempty"`
	ProviderFee *ProviderFees `json:"providerFee,omitempty"`
}

// ProviderComputeInitializeResults groups the initialize answers for the
// algorithm and every dataset, in request order.
type ProviderComputeInitializeResults struct {
	Algorithm *ProviderComputeInitialize  `json:"algorithm"`
	Datasets  []ProviderComputeInitialize `json:"datasets"`
}

// ComputeJob is a job as reported by the Provider.
type ComputeJob struct {
	Owner           string              `json:"owner"`
	DID             string              `json:"did,omitempty"`
	JobID           string              `json:"jobId"`
	DateCreated     json.Number         `json:"dateCreated,omitempty"`
	DateFinished    json.Number         `json:"dateFinished,omitempty"`
	Status          JobStatus           `json:"status"`
	StatusText      string              `json:"statusText"`
	Results         []ComputeResultFile `json:"results,omitempty"`
	InputDID        []string            `json:"inputDID,omitempty"`
	AlgoDID         string              `json:"algoDID,omitempty"`
	AgreementID     string              `json:"agreementId,omitempty"`
	ExpireTimestamp json.Number         `json:"expireTimestamp,omitempty"`
}

// ComputeResultFile is one output of a finished job.
type ComputeResultFile struct {
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Type     string `json:"type"`
	Index    int    `json:"index"`
}

// JobStatus is the numeric job status reported by the Provider.
type JobStatus int

// Known job status codes.
const (
	JobWarmingUp                   JobStatus = 1
	JobStarted                     JobStatus = 10
	JobConfiguringVolumes          JobStatus = 20
	JobProvisioningSuccess         JobStatus = 30
	JobDataProvisioningFailed      JobStatus = 31
	JobAlgorithmProvisioningFailed JobStatus = 32
	JobRunningAlgorithm            JobStatus = 40
	JobFilteringResults            JobStatus = 50
	JobPublishingResults           JobStatus = 60
	JobCompleted                   JobStatus = 70
)

var jobStatusText = map[JobStatus]string{
	JobWarmingUp:                   "Warming up",
	JobStarted:                     "Job started",
	JobConfiguringVolumes:          "Configuring volumes",
	JobProvisioningSuccess:         "Provisioning success",
	JobDataProvisioningFailed:      "Data provisioning failed",
	JobAlgorithmProvisioningFailed: "Algorithm provisioning failed",
	JobRunningAlgorithm:            "Running algorithm",
	JobFilteringResults:            "Filtering results",
	JobPublishingResults:           "Publishing results",
	JobCompleted:                   "Job completed",
}

func (s JobStatus) String() string {
	if t, ok := jobStatusText[s]; ok {
		return t
	}
	return fmt.Sprintf("status %d", int(s))
}

// IsFailed reports whether the job ended without producing results.
func (s JobStatus) IsFailed() bool {
	return s == JobDataProvisioningFailed || s == JobAlgorithmProvisioningFailed
}

// IsTerminal reports whether the Provider will not move the job further.
// Codes at or above JobCompleted are treated as terminal.
func (s JobStatus) IsTerminal() bool {
	return s.IsFailed() || s >= JobCompleted
}

// Amount is a token amount in base units. It decodes from JSON strings and
// numbers and encodes as a decimal string.
type Amount struct {
	big.Int
}

// NewAmount wraps v. A nil v yields zero.
func NewAmount(v *big.Int) *Amount {
	a := new(Amount)
	if v != nil {
		a.Set(v)
	}
	return a
}

// Big returns the amount as *big.Int; a nil receiver yields zero.
func (a *Amount) Big() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(&a.Int)
}

// UnmarshalJSON accepts "123", 123, 1.23e+21 and "0x7b".
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		a.SetInt64(0)
		return nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if _, ok := a.SetString(s[2:], 16); !ok {
			return fmt.Errorf("invalid hex amount %q", s)
		}
		return nil
	}
	if _, ok := a.SetString(s, 10); ok {
		return nil
	}
	f, ok := new(big.Float).SetPrec(256).SetString(s)
	if !ok {
		return fmt.Errorf("invalid amount %q", s)
	}
	i, acc := f.Int(nil)
	if acc != big.Exact {
		return fmt.Errorf("amount %q is not an integer", s)
	}
	a.Set(i)
	return nil
}

// MarshalJSON encodes the amount as a decimal string.
func (a *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}
