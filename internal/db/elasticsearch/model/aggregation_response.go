package model

type EsAggregationResponse struct {
	Took         int                      `json:"took"`
	TimedOut     bool                     `json:"timed_out"`
	Aggregations map[string]DateHistogram `json:"aggregations"`
}

type DateHistogram struct {
	Buckets []DateBucket `json:"buckets"`
}

type DateBucket struct {
	Key         int64  `json:"key"`
	KeyAsString string `json:"key_as_string"`
	DocCount    int    `json:"doc_count"`
}
