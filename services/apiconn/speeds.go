package apiconn

import (
	"bytes"
	"context"
	"strings"

	"trafficdots-go/errcode"
	"trafficdots-go/types"
	"trafficdots-go/x/circbuf"
)

// SpeedsURL is the CSV for one direction and category, e.g.
// {server}/current_data/data_north_V2_0_0.csv.
func SpeedsURL(server string, dir types.Direction, cat types.SpeedCategory, dataTag string) string {
	prefix := "data"
	if cat == types.Typical {
		prefix = "typical"
	}
	return strings.TrimRight(server, "/") + "/current_data/" + prefix + "_" + dir.String() + "_" + dataTag + ".csv"
}

// AddendumFolderURL is the folder holding the addenda of csvURL.
func AddendumFolderURL(csvURL string) string { return csvURL + AddendumFolder + "/" }

// ResolveAddendum resolves a metadata name against the addendum folder.
// Absolute http(s) names are returned unchanged.
func ResolveAddendum(folder, name string) string {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return folder + strings.TrimLeft(name, "/")
}

// ReadSpeeds parses rows from leftover and then from the rest of file into
// table. Rows only fill empty slots, so earlier sources win.
func (f *Fetcher) ReadSpeeds(ctx context.Context, file *File, leftover []byte, table types.SpeedTable) error {
	cb, err := circbuf.New(CircBufSize)
	if err != nil {
		return err
	}
	if len(leftover) == 0 {
		leftover = []byte{'\n'}
	}
	if err := cb.Store(leftover); err != nil {
		return errcode.Wrap(errcode.Fail, "apiconn.read_speeds", err)
	}
	if err := cb.Mark(0, circbuf.FromOldestChar); err != nil {
		return errcode.Wrap(errcode.Fail, "apiconn.read_speeds", err)
	}

	block := make([]byte, BlockSize)
	scratch := make([]byte, BlockSize)
	for {
		row, err := NextCSVRow(cb, scratch)
		switch errcode.Of(err) {
		case errcode.OK:
			f.put(table, row)
		case errcode.InvalidResponse:
			// Error-type indicator rows carry no speed.
		case errcode.NotFound:
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := file.NextBlock(block)
			if err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
			if err := cb.Store(block[:n]); err != nil {
				return errcode.Wrap(errcode.Fail, "apiconn.read_speeds", err)
			}
		default:
			return err
		}
	}
}

func (f *Fetcher) put(table types.SpeedTable, row types.LEDData) {
	if int(row.LEDNum) > len(table) {
		f.log.Warn().Uint16("led", row.LEDNum).Int("max", len(table)).Msg("led number out of range")
		return
	}
	if table[row.LEDNum-1].LEDNum == 0 {
		table[row.LEDNum-1] = row
	}
}

// readFile fetches url into table. For addenda it returns the resolved URL
// of the next link, or "" at the end of the chain.
func (f *Fetcher) readFile(ctx context.Context, url string, addendum bool, table types.SpeedTable) (string, error) {
	f.log.Info().Str("url", url).Msg("retrieving")
	file, err := f.OpenServerFile(ctx, url)
	if err != nil {
		return "", err
	}
	defer file.Close()

	block := make([]byte, BlockSize)
	n, err := file.NextBlock(block)
	if err != nil {
		return "", err
	}
	data := block[:n]
	next := ""
	if addendum {
		name, rest, _, err := ParseMetadata(data)
		if err != nil {
			// Stop the chain; the broken header line is dropped.
			f.log.Warn().Err(err).Str("url", url).Msg("malformed addendum metadata")
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				rest = data[i+1:]
			}
		} else if name != "" {
			next = ResolveAddendum(url[:strings.LastIndex(url, "/")+1], name)
		}
		data = rest
	}
	if err := f.ReadSpeeds(ctx, file, data, table); err != nil {
		return "", err
	}
	return next, nil
}

// GetServerSpeeds fills table from csvURL. With addenda enabled the chain
// starting at {csvURL}_add/{FirstAddendum}.add is read first; a link that
// cannot be read ends the chain but the base file is still read. The table
// is reset before reading.
func (f *Fetcher) GetServerSpeeds(ctx context.Context, csvURL string, table types.SpeedTable) error {
	if len(table) == 0 || csvURL == "" {
		return errcode.New(errcode.InvalidParams, "apiconn.get_speeds", "empty table or url")
	}
	table.Reset()
	if f.cfg.UseAddenda && f.cfg.FirstAddendum != "" {
		f.readAddenda(ctx, csvURL, table)
	}
	if _, err := f.readFile(ctx, csvURL, false, table); err != nil {
		return err
	}
	return nil
}

func (f *Fetcher) readAddenda(ctx context.Context, csvURL string, table types.SpeedTable) {
	seen := map[string]bool{}
	next := AddendumFolderURL(csvURL) + f.cfg.FirstAddendum + AddendumExt
	for i := 0; next != ""; i++ {
		if i >= f.cfg.MaxAddenda {
			f.log.Warn().Int("max", f.cfg.MaxAddenda).Msg("addendum chain too long")
			return
		}
		if seen[next] {
			f.log.Warn().Str("url", next).Msg("addendum chain cycle")
			return
		}
		seen[next] = true
		var err error
		next, err = f.readFile(ctx, next, true, table)
		if err != nil {
			f.log.Warn().Err(err).Msg("addendum chain ended")
			return
		}
	}
}
