package config

import (
	"strconv"
)

// URLRecord is one seed URL and its ground-truth label.
type URLRecord struct {
	URL   string `json:"url"`
	Label int    `json:"label"` // 0 legitimate, 1 phishing
}

const (
	LabelLegitimate = 0
	LabelPhishing   = 1
)

// 🌐 Address bar
type AddressBarFeatures struct {
	Domain       string `json:"Domain"`
	HaveIP       int    `json:"Have_IP"`
	HaveAt       int    `json:"Have_At"`
	URLLength    int    `json:"URL_Length"`
	URLDepth     int    `json:"URL_Depth"`
	Redirection  int    `json:"Redirection"`
	HTTPSDomain  int    `json:"https_Domain"`
	TinyURL      int    `json:"TinyURL"`
	PrefixSuffix int    `json:"Prefix/Suffix"`
}

// 🌎 Domain & WHOIS
type DomainFeatures struct {
	DNSRecord  int `json:"DNS_Record"`
	WebTraffic int `json:"Web_Traffic"`
	DomainAge  int `json:"Domain_Age"`
	DomainEnd  int `json:"Domain_End"`
}

// 📝 HTML & JavaScript
type ContentFeatures struct {
	IFrame      int `json:"iFrame"`
	MouseOver   int `json:"Mouse_Over"`
	RightClick  int `json:"Right_Click"`
	WebForwards int `json:"Web_Forwards"`
}

// 🌟 One dataset row
type FeatureVector struct {
	URL string `json:"url"` // not part of the CSV columns
	AddressBarFeatures
	DomainFeatures
	ContentFeatures
	Label int `json:"Label"`
}

// FeatureNames is the fixed column order of every output CSV.
var FeatureNames = []string{
	// AddressBarFeatures
	"Domain", "Have_IP", "Have_At", "URL_Length", "URL_Depth",
	"Redirection", "https_Domain", "TinyURL", "Prefix/Suffix",

	// DomainFeatures
	"DNS_Record", "Web_Traffic", "Domain_Age", "Domain_End",

	// ContentFeatures
	"iFrame", "Mouse_Over", "Right_Click", "Web_Forwards",

	"Label",
}

// GetCSVHeader returns the header row for the CSV file.
func (fv FeatureVector) GetCSVHeader() []string {
	return FeatureNames
}

// Values returns the integer columns in header order, skipping Domain.
func (fv FeatureVector) Values() []int {
	return []int{
		fv.HaveIP, fv.HaveAt, fv.URLLength, fv.URLDepth,
		fv.Redirection, fv.HTTPSDomain, fv.TinyURL, fv.PrefixSuffix,
		fv.DNSRecord, fv.WebTraffic, fv.DomainAge, fv.DomainEnd,
		fv.IFrame, fv.MouseOver, fv.RightClick, fv.WebForwards,
		fv.Label,
	}
}

// ToCSVRow converts the FeatureVector into a slice of strings for CSV output.
func (fv FeatureVector) ToCSVRow() []string {
	row := make([]string, len(FeatureNames))
	for i, header := range FeatureNames {
		switch header {
		case "Domain":
			row[i] = fv.Domain
		case "Have_IP":
			row[i] = strconv.Itoa(fv.HaveIP)
		case "Have_At":
			row[i] = strconv.Itoa(fv.HaveAt)
		case "URL_Length":
			row[i] = strconv.Itoa(fv.URLLength)
		case "URL_Depth":
			row[i] = strconv.Itoa(fv.URLDepth)
		case "Redirection":
			row[i] = strconv.Itoa(fv.Redirection)
		case "https_Domain":
			row[i] = strconv.Itoa(fv.HTTPSDomain)
		case "TinyURL":
			row[i] = strconv.Itoa(fv.TinyURL)
		case "Prefix/Suffix":
			row[i] = strconv.Itoa(fv.PrefixSuffix)
		case "DNS_Record":
			row[i] = strconv.Itoa(fv.DNSRecord)
		case "Web_Traffic":
			row[i] = strconv.Itoa(fv.WebTraffic)
		case "Domain_Age":
			row[i] = strconv.Itoa(fv.DomainAge)
		case "Domain_End":
			row[i] = strconv.Itoa(fv.DomainEnd)
		case "iFrame":
			row[i] = strconv.Itoa(fv.IFrame)
		case "Mouse_Over":
			row[i] = strconv.Itoa(fv.MouseOver)
		case "Right_Click":
			row[i] = strconv.Itoa(fv.RightClick)
		case "Web_Forwards":
			row[i] = strconv.Itoa(fv.WebForwards)
		case "Label":
			row[i] = strconv.Itoa(fv.Label)
		default:
			row[i] = "" // Should not happen if FeatureNames is complete
		}
	}
	return row
}
