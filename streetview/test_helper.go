package streetview

import (
	"encoding/json"
)

// EncodeSearchResponse builds a JSONP search response as the service sends it. An empty
// panoID produces the "no images" response.
func EncodeSearchResponse(panoID string) string {
	if panoID == "" {
		return searchCallback + ` && ` + searchCallback + `( [[5,"generic","Search returned no images."]] )`
	}
	return `/**/` + searchCallback + ` && ` + searchCallback + `( [[0],[[1],[2,"` + panoID + `"]],null] )`
}

// EncodeMetadataResponse builds a guarded metadata response carrying a depth payload.
func EncodeMetadataResponse(payload string) ([]byte, error) {
	// nulls returns n nulls followed by last.
	nulls := func(n int, last interface{}) []interface{} {
		out := make([]interface{}, n+1)
		out[n] = last
		return out
	}
	doc := nulls(1, []interface{}{
		nulls(5, []interface{}{
			nulls(5, nulls(1, nulls(2, payload))),
		}),
	})
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(")]}'"), data...), nil
}
