package dto

type ImportStatus string

const (
	ImportAllSuccess ImportStatus = "ALL_SUCCESS"
	ImportPartial    ImportStatus = "PARTIAL"
	ImportAllFailed  ImportStatus = "ALL_FAILED"
	ImportEmpty      ImportStatus = "EMPTY"
)

type FailureReason string

const (
	ReasonInvalid          FailureReason = "INVALID"
	ReasonDuplicateBarcode FailureReason = "DUPLICATE_BARCODE"
	ReasonStorage          FailureReason = "STORAGE"
)

type ImportSuccess struct {
	Line      int
	ProductID int64
	Name      string
}

type ImportFailure struct {
	Line    int
	Name    string
	Reason  FailureReason
	Message string
}

type ImportResult struct {
	Status    ImportStatus
	Successes []ImportSuccess
	Failures  []ImportFailure
}

func StatusOf(successes, failures int) ImportStatus {
	switch {
	case successes == 0 && failures == 0:
		return ImportEmpty
	case failures == 0:
		return ImportAllSuccess
	case successes == 0:
		return ImportAllFailed
	default:
		return ImportPartial
	}
}
