package importing

import (
	"strings"
	"unicode"
)

type column string

const (
	colID        column = "id"
	colName      column = "name"
	colDate      column = "date"
	colStatus    column = "status"
	colSent      column = "sent"
	colDelivered column = "delivered"
	colOpened    column = "opened"
	colClicked   column = "clicked"
	colBounced   column = "bounced"
)

// Header spellings seen in Marketing Cloud, ESP and spreadsheet exports,
// compared after normalizeHeader.
var headerAliases = map[string]column{
	"id":           colID,
	"campaignid":   colID,
	"sendid":       colID,
	"jobid":        colID,
	"name":         colName,
	"campaign":     colName,
	"campaignname": colName,
	"emailname":    colName,
	"subject":      colName,
	"date":         colDate,
	"senddate":     colDate,
	"sentdate":     colDate,
	"day":          colDate,
	"eventdate":    colDate,
	"status":       colStatus,
	"sent":         colSent,
	"totalsent":    colSent,
	"recipients":   colSent,
	"sends":        colSent,
	"emailssent":   colSent,
	"delivered":    colDelivered,
	"deliveries":   colDelivered,
	"opened":       colOpened,
	"opens":        colOpened,
	"uniqueopens":  colOpened,
	"totalopens":   colOpened,
	"clicked":      colClicked,
	"clicks":       colClicked,
	"uniqueclicks": colClicked,
	"totalclicks":  colClicked,
	"bounced":      colBounced,
	"bounces":      colBounced,
	"totalbounces": colBounced,
	"hardbounces":  colBounced,
}

// normalizeHeader lowercases and keeps letters and digits only, so
// "Total Sent", "total_sent" and "TotalSent" compare equal.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnIndex maps recognised columns to their position. The first
// matching header wins.
type columnIndex map[column]int

func indexHeaders(headers []string) columnIndex {
	idx := make(columnIndex)
	for i, h := range headers {
		col, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := idx[col]; !seen {
			idx[col] = i
		}
	}
	return idx
}

func (idx columnIndex) has(col column) bool {
	_, ok := idx[col]
	return ok
}

func (idx columnIndex) value(record []string, col column) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
