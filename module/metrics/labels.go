package metrics

const (
	LabelResource = "resource"
)

const (
	ResourceUndefined         = "undefined"
	ResourceHeader            = "header"
	ResourceBodyIndices       = "body_indices"
	ResourceTransactionNumber = "transaction_number"
)
