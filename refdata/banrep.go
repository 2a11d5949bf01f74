package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/omdtools/omd"
)

// The UVR series as published by the central bank's statistics service. The
// payload is a list of series, each carrying "data" rows of
// [epoch-millis, value].
const uvrSeriesURL = "https://suameca.banrep.gov.co/buscador-de-series/rest/buscadorSeriesRestService/consultaDatosSeries?idSerie=240"

// FetchLatestUVR returns the most recent published UVR value and its date.
func FetchLatestUVR(client *http.Client) (omd.Date, float64, error) {
	var jobj any
	if err := jwget(client, uvrSeriesURL, &jobj); err != nil {
		return omd.Date{}, math.NaN(), fmt.Errorf("error in wget %q: %w", "UVR", err)
	}
	return latestUVR(jobj)
}

// latestUVR extracts the last (date, value) pair from the series payload.
func latestUVR(jobj any) (omd.Date, float64, error) {
	path := "$[0].data[-1:]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return omd.Date{}, math.NaN(), fmt.Errorf("error parsing %q: %q %w", "UVR", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	pair, ok := jval.([]any)
	if !ok || len(pair) < 2 {
		return omd.Date{}, math.NaN(), fmt.Errorf("error parsing %q: %q %s %v", "UVR", path, "not a [date, value] pair", jval)
	}
	millis, ok := pair[0].(float64)
	if !ok {
		return omd.Date{}, math.NaN(), fmt.Errorf("error parsing %q: date %v is not a number", "UVR", pair[0])
	}
	val, ok := pair[1].(float64)
	if !ok {
		return omd.Date{}, math.NaN(), fmt.Errorf("error parsing %q: value %v is not a number", "UVR", pair[1])
	}

	on := time.UnixMilli(int64(millis)).UTC()
	return omd.NewDate(on.Date()), val, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}
