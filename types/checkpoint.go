package types

import (
	"time"

	"code.stakewire.io/stakewire/types/num"
)

// CheckpointName identifies which engine a checkpoint payload belongs to.
type CheckpointName string

const (
	LedgerCheckpoint      CheckpointName = "ledger"
	WithdrawalsCheckpoint CheckpointName = "withdrawals"
	PartnersCheckpoint    CheckpointName = "partners"
	InstantPoolCheckpoint CheckpointName = "instantpool"
)

// Checkpoint payloads are versioned JSON documents. Amounts serialise as
// base 10 strings (num.Uint implements encoding.TextMarshaler) so numeric
// state survives restarts byte-for-byte.

type PayloadBalance struct {
	Party   string    `json:"party"`
	Balance *num.Uint `json:"balance"`
}

type PayloadLedger struct {
	Balances              []PayloadBalance `json:"balances"`
	TotalShares           *num.Uint        `json:"totalShares"`
	TotalPooledCollateral *num.Uint        `json:"totalPooledCollateral"`
	FeeBps                uint64           `json:"feeBps"`
	Treasury              string           `json:"treasury"`
	Paused                bool             `json:"paused"`
	SnapshotNonce         uint64           `json:"snapshotNonce"`
}

type PayloadWithdrawalRequest struct {
	Owner          string       `json:"owner"`
	SharesBurned   *num.Uint    `json:"sharesBurned"`
	CollateralOwed *num.Uint    `json:"collateralOwed"`
	Validator      ValidatorRef `json:"validator"`
	RequestEpoch   uint64       `json:"requestEpoch"`
	UnlockEpoch    uint64       `json:"unlockEpoch"`
}

type PayloadWithdrawals struct {
	// Requests are grouped per owner in list order, indexes are positional
	// within the live list and must be restored exactly.
	Requests []PayloadWithdrawalRequest `json:"requests"`
}

type PayloadPartner struct {
	ID                    uint64    `json:"id"`
	Name                  string    `json:"name"`
	Wallet                string    `json:"wallet"`
	Status                string    `json:"status"`
	TotalCollateralStaked *num.Uint `json:"totalCollateralStaked"`
	TotalShares           *num.Uint `json:"totalShares"`
	DisbursalCount        uint64    `json:"disbursalCount"`
	DisbursalRemaining    uint64    `json:"disbursalRemaining"`
}

type PayloadBatch struct {
	ID                 uint64    `json:"id"`
	SharesBurned       *num.Uint `json:"sharesBurned"`
	Status             string    `json:"status"`
	WithdrawalEpoch    uint64    `json:"withdrawalEpoch"`
	CollateralReceived *num.Uint `json:"collateralReceived"`
	UndelegatedAt      time.Time `json:"undelegatedAt"`
	ClaimedAt          time.Time `json:"claimedAt"`
}

type PayloadPartnerShare struct {
	BatchID        uint64    `json:"batchId"`
	PartnerID      uint64    `json:"partnerId"`
	SharesUnstaked *num.Uint `json:"sharesUnstaked"`
	DisbursedAt    time.Time `json:"disbursedAt"`
}

type PayloadPartners struct {
	NextPartnerID     uint64                `json:"nextPartnerId"`
	CurrentBatchID    uint64                `json:"currentBatchId"`
	Partners          []PayloadPartner      `json:"partners"`
	Batches           []PayloadBatch        `json:"batches"`
	Shares            []PayloadPartnerShare `json:"shares"`
	PendingClaims     []uint64              `json:"pendingClaims"`
	ReimbursementPool *num.Uint             `json:"reimbursementPool"`
	ReimbursementPct  uint64                `json:"reimbursementPct"`
}

type PayloadSwapRequest struct {
	Owner          string    `json:"owner"`
	Amount         *num.Uint `json:"amount"`
	RequestTime    time.Time `json:"requestTime"`
	WithdrawalTime time.Time `json:"withdrawalTime"`
}

type PayloadInstantPool struct {
	BufferedCollateral *num.Uint            `json:"bufferedCollateral"`
	BufferedShares     *num.Uint            `json:"bufferedShares"`
	AccruedFees        *num.Uint            `json:"accruedFees"`
	FeeBps             uint64               `json:"feeBps"`
	LastNonce          uint64               `json:"lastNonce"`
	SnapshotCollateral *num.Uint            `json:"snapshotCollateral"`
	SnapshotShares     *num.Uint            `json:"snapshotShares"`
	Requests           []PayloadSwapRequest `json:"requests"`
}
