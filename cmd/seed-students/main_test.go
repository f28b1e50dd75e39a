package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudents(t *testing.T) {
	input := "email,name,mobile,password,profile\n" +
		"a@x.com, Asha ,111,secret,https://img/a.png\n" +
		"b@x.com,Bala,222,secret2,\n"

	rows, err := parseStudents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Asha", rows[0].Name)
	assert.Equal(t, "111", rows[0].Mobile)
	assert.Equal(t, "a@x.com", rows[0].Email)
	assert.Equal(t, "https://img/a.png", rows[0].Profile)
	assert.Equal(t, "secret", rows[0].Password)
	assert.Empty(t, rows[1].Profile)
}

func TestParseStudents_ProfileColumnOptional(t *testing.T) {
	rows, err := parseStudents(strings.NewReader("name,mobile,email,password\nA,111,a@x.com,secret\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Profile)
}

func TestParseStudents_MissingColumn(t *testing.T) {
	_, err := parseStudents(strings.NewReader("name,email,password\nA,a@x.com,secret\n"))
	assert.ErrorContains(t, err, `"mobile"`)
}

func TestParseStudents_Empty(t *testing.T) {
	_, err := parseStudents(strings.NewReader(""))
	assert.Error(t, err)
}
