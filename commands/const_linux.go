package commands

const (
	_etc = "/usr/local/etc/regression-sheets"
	_var = "/usr/local/var/regression-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
