/*
Package regression records regression test results on Google Sheets.

regression-sheets is invoked by the regression scripts after each test and appends the result to the
spreadsheet for the branch or board backend under test, adding a column for the test the first time
it is reported.

regression-sheets supports the following commands:

  - performance, to record a branch test timestamp, runtime and result on the branch performance spreadsheet
  - regression, to record a board test result on the backend regression spreadsheet
  - authorise, to authorise application access to the Google Sheets spreadsheets
  - get, to download a worksheet as a TSV file
  - put, to upload a TSV file to a worksheet
  - version, to display the application version
*/
package regression
