/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package export writes snapshots of the clinic's collections as CSV files.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dentflow/clinicsync/api"
	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

const (
	csvExt   = ".csv"
	gzExt    = ".gz"
	dirPerms = 0o750
)

// Table is a named CSV document.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func itoa(n int) string { return strconv.Itoa(n) }

func money(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// Patients returns a Table of the given patients.
func Patients(patients []api.Patient) Table {
	t := Table{
		Name: "patients",
		Header: []string{"id", "firstName", "lastName", "email", "phone", "dateOfBirth", "gender",
			"city", "country", "allergies", "lastVisit", "nextAppointment", "status", "createAt"},
	}

	for _, p := range patients {
		t.Rows = append(t.Rows, []string{p.ID.String(), p.FirstName, p.LastName, p.Email, p.Phone,
			string(p.DateOfBirth), p.Gender, p.City, p.Country, p.Allergies, string(p.LastVisit),
			string(p.NextAppointment), p.Status, string(p.CreatedAt)})
	}

	return t
}

// Appointments returns a Table of the given appointments.
func Appointments(appointments []api.Appointment) Table {
	t := Table{
		Name: "appointments",
		Header: []string{"id", "patientId", "patientName", "dentistId", "dentistName", "date",
			"startTime", "endTime", "treatmentType", "status", "notes"},
	}

	for _, a := range appointments {
		t.Rows = append(t.Rows, []string{a.ID.String(), a.PatientID.String(), a.PatientName,
			a.DentistID.String(), a.DentistName, string(a.Date), a.StartTime, a.EndTime,
			a.TreatmentType, string(a.Status), a.Notes})
	}

	return t
}

// TreatmentPlans returns a Table of the given plans, one row per plan.
func TreatmentPlans(plans []api.TreatmentPlan) Table {
	t := Table{
		Name: "treatments",
		Header: []string{"id", "patientId", "patientName", "dentistName", "treatmentType", "startDate",
			"endDate", "cost", "status", "sessions", "completedSessions"},
	}

	for _, p := range plans {
		t.Rows = append(t.Rows, []string{p.ID.String(), p.PatientID.String(), p.PatientName,
			p.DentistName, p.TreatmentType, string(p.StartDate), string(p.EndDate), money(p.Cost),
			string(p.Status), itoa(len(p.Sessions)), itoa(p.CompletedSessions())})
	}

	return t
}

// Inventory returns a Table of the given items, one row per stock lot. Items
// without lots get a single row with empty lot columns.
func Inventory(items []api.InventoryItem) Table {
	t := Table{
		Name: "inventory",
		Header: []string{"id", "name", "category", "supplier", "unit", "totalQuantity", "minimumLevel",
			"lowStock", "lotId", "lotQuantity", "lotExpiry"},
	}

	for _, item := range items {
		prefix := []string{item.ID.String(), item.Name, item.Category, item.Supplier, item.Unit,
			itoa(item.TotalQuantity), itoa(item.MinimumLevel), strconv.FormatBool(item.IsLowStock())}

		if len(item.Stocks) == 0 {
			t.Rows = append(t.Rows, append(prefix, "", "", ""))

			continue
		}

		for _, s := range item.Stocks {
			row := append(append([]string(nil), prefix...), s.ID.String(), itoa(s.Quantity), string(s.ExpiryDate))
			t.Rows = append(t.Rows, row)
		}
	}

	return t
}

// Dentists returns a Table of the given dentists.
func Dentists(dentists []api.Dentist) Table {
	t := Table{
		Name:   "dentists",
		Header: []string{"id", "firstName", "lastName", "specialization", "licenseNumber", "phone", "email"},
	}

	for _, d := range dentists {
		t.Rows = append(t.Rows, []string{d.ID.String(), d.FirstName, d.LastName, d.Specialization,
			d.LicenseNumber, d.Phone, d.Email})
	}

	return t
}

// Staff returns a Table of the given team members.
func Staff(members []api.StaffMember) Table {
	t := Table{
		Name:   "staff",
		Header: []string{"id", "firstName", "lastName", "email", "phone", "role", "specialization"},
	}

	for _, m := range members {
		t.Rows = append(t.Rows, []string{m.ID.String(), m.FirstName, m.LastName, m.Email, m.Phone,
			m.Role, m.Specialization})
	}

	return t
}

// WriteCSV writes the table, header first, to w.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return err
	}

	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}

	return cw.Error()
}

// WriteDir writes each table to <dir>/<name>.csv, or <name>.csv.gz if gzipped,
// creating dir if necessary. Tables are written concurrently. It returns the
// paths written, in the order of the given tables.
func WriteDir(dir string, gzipped bool, tables ...Table) ([]string, error) {
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, err
	}

	paths := make([]string, len(tables))

	var g errgroup.Group

	for n, t := range tables {
		paths[n] = filepath.Join(dir, t.Name+csvExt)

		if gzipped {
			paths[n] += gzExt
		}

		g.Go(func() error {
			return writeFile(paths[n], gzipped, t)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

func writeFile(path string, gzipped bool, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if errc := f.Close(); errc != nil {
			err = multierror.Append(err, errc).ErrorOrNil()
		}
	}()

	if !gzipped {
		return WriteCSV(f, t)
	}

	gw := pgzip.NewWriter(f)

	if err = WriteCSV(gw, t); err != nil {
		return multierror.Append(err, gw.Close())
	}

	return gw.Close()
}

// ReadCSV reads back a file written by WriteDir, returning its header and rows.
func ReadCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	defer f.Close()

	var r io.Reader = f

	if strings.HasSuffix(path, gzExt) {
		gr, errr := pgzip.NewReader(f)
		if errr != nil {
			return nil, nil, errr
		}

		defer gr.Close()

		r = gr
	}

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, io.ErrUnexpectedEOF
	}

	return records[0], records[1:], nil
}
