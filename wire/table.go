package wire

// Column describes one result-table column: its type tag and a
// possibly-empty name. Per §3, an empty name compares equal to any
// other empty-named column regardless of type — a quirk of result
// sets built from unprojected query columns.
type Column struct {
	Tag  Tag
	Name string
}

// Equal implements §3's empty-name equality quirk.
func (c Column) Equal(other Column) bool {
	if c.Name == "" && other.Name == "" {
		return true
	}
	return c.Tag == other.Tag && c.Name == other.Name
}

// Table is a decoded VOLTTABLE: an ordered list of columns and an
// ordered list of rows, each row holding exactly len(Columns) cells
// typed per their column (§3 invariant).
type Table struct {
	Status  byte
	Columns []Column
	Rows    [][]Cell
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Encode serializes t per §4.1's result-table framing, including the
// table_size/metadata_size/row_size length prefixes.
func (t *Table) Encode() ([]byte, error) {
	meta := NewWriter(32 + 16*len(t.Columns))
	meta.WriteByte(t.Status)
	meta.WriteSmallInt(int16(len(t.Columns)))
	for _, c := range t.Columns {
		meta.WriteTag(c.Tag)
		name := c.Name
		meta.WriteString(&name)
	}

	body := NewWriter(meta.Len() + 64)
	body.WriteInteger(int32(meta.Len()))
	body.WriteBytes(meta.Bytes())
	body.WriteInteger(int32(len(t.Rows)))

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, newEncodeError(EncodeTypeMismatch, "row %d has %d cells, table has %d columns", i, len(row), len(t.Columns))
		}
		rowW := NewWriter(64)
		for j, cell := range row {
			if err := rowW.EncodeCell(t.Columns[j].Tag, cell); err != nil {
				return nil, err
			}
		}
		body.WriteInteger(int32(rowW.Len()))
		body.WriteBytes(rowW.Bytes())
	}

	out := NewWriter(4 + body.Len())
	out.WriteInteger(int32(body.Len()))
	out.WriteBytes(body.Bytes())
	return out.Bytes(), nil
}

// DecodeTable reads one result table. Every nested length prefix
// (table, metadata, each row) is checked against the bytes actually
// consumed; any mismatch — including truncation partway through a
// field — is a DecodeError of kind Frame, never a panic.
func (r *Reader) DecodeTable() (*Table, error) {
	tableSize, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	tableStart := r.Remaining()

	metadataSize, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	metaStart := r.Remaining()

	status, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	colCount, err := r.ReadSmallInt()
	if err != nil {
		return nil, err
	}
	if colCount < 0 {
		return nil, newDecodeError(Frame, "negative column count %d", colCount)
	}

	columns := make([]Column, colCount)
	for i := range columns {
		tag, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		columns[i] = Column{Tag: tag, Name: derefString(name)}
	}

	if consumed := metaStart - r.Remaining(); consumed != int(metadataSize) {
		return nil, newDecodeError(Frame, "metadata size mismatch: declared %d, consumed %d", metadataSize, consumed)
	}

	rowCount, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if rowCount < 0 {
		return nil, newDecodeError(Frame, "negative row count %d", rowCount)
	}

	rows := make([][]Cell, rowCount)
	for i := range rows {
		rowSize, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		rowStart := r.Remaining()

		row := make([]Cell, len(columns))
		for j, col := range columns {
			row[j], err = r.DecodeCell(col.Tag)
			if err != nil {
				return nil, err
			}
		}

		if consumed := rowStart - r.Remaining(); consumed != int(rowSize) {
			return nil, newDecodeError(Frame, "row %d size mismatch: declared %d, consumed %d", i, rowSize, consumed)
		}
		rows[i] = row
	}

	if consumed := tableStart - r.Remaining(); consumed != int(tableSize) {
		return nil, newDecodeError(Frame, "table size mismatch: declared %d, consumed %d", tableSize, consumed)
	}

	return &Table{Status: status, Columns: columns, Rows: rows}, nil
}
