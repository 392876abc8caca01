package prompt

import (
	"bytes"
	"fmt"
	"strings"
)

const purpose = `You convert a customer's free-text request for home-interior materials
(doors, windows, sliding doors, frames, moldings, hardware) into a structured order.`

var rules = []string{
	"Only use products from [CANDIDATES]. Copy product_id from the ID field and company_id from the company_id field of the chosen line.",
	"If no candidate fits a requested product, leave that product out instead of inventing an id.",
	"Express width and height in millimetres: 90cm -> 900, 2.1m -> 2100. Read \"900x2100\", \"900*2100\" and \"900 by 2100\" as width x height.",
	"Use 0 for width and height when the request gives no size.",
	"quantity is an integer: \"5 units\", \"5ea\", \"five\" and \"5개\" all mean 5. Use 1 when no quantity is given.",
	"Always set unit_price and total_price to 0; prices are calculated later.",
	"Put the phrase of the request that produced the item in description.",
	"Set spec_name and type_name only when the request names a specification or type explicitly; otherwise use empty strings.",
}

var outputFields = []field{
	{"product_id", "integer", true, "ID of the chosen candidate"},
	{"company_id", "integer", true, "company_id of the chosen candidate"},
	{"product_name", "string", true, "name of the chosen candidate"},
	{"width", "integer", false, "millimetres, 0 when not given"},
	{"height", "integer", false, "millimetres, 0 when not given"},
	{"quantity", "integer", true, "at least 1"},
	{"spec_name", "string", false, "specification named in the request"},
	{"type_name", "string", false, "type named in the request"},
	{"unit_price", "integer", true, "always 0"},
	{"total_price", "integer", true, "always 0"},
	{"description", "string", false, "source phrase"},
}

const outputFormat = `Return only one JSON object of the form {"items": [ ... ]}.
No markdown, no code fences, no commentary before or after the JSON.`

const exampleInput = "ABS flat door 900x2100, 5 units"

const exampleCandidates = "- ID:51 | company_id:1 | name:ABS flat door | base_price:100000 | category:Door | company:Dongseo"

const exampleOutput = `{"items":[{"product_id":51,"company_id":1,"product_name":"ABS flat door","width":900,"height":2100,"quantity":5,"spec_name":"","type_name":"","unit_price":0,"total_price":0,"description":"ABS flat door 900x2100, 5 units"}]}`

type field struct {
	name     string
	typ      string
	required bool
	desc     string
}

// Build renders the extraction instruction for one request. It is a pure
// function of its arguments.
func Build(candidates, userText string) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", purpose)
	writeSection(&buf, "CANDIDATES", strings.TrimSpace(candidates))
	writeSection(&buf, "RULES", formatList(rules))
	writeSection(&buf, "OUTPUT", formatFields(outputFields))
	writeSection(&buf, "OUTPUT_FORMAT", outputFormat)
	writeSection(&buf, "EXAMPLE", "Candidates:\n"+exampleCandidates+"\nRequest: "+exampleInput+"\nOutput:\n"+exampleOutput)
	writeSection(&buf, "REQUEST", strings.TrimSpace(userText))
	return strings.TrimSpace(buf.String()) + "\n"
}

func writeSection(buf *bytes.Buffer, name, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", name, body)
}

func formatList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFields(fields []field) string {
	var b strings.Builder
	for _, f := range fields {
		req := "optional"
		if f.required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", f.name, f.typ, req, f.desc)
	}
	return strings.TrimRight(b.String(), "\n")
}
