package commands

const (
	_etc = "/usr/local/etc/com.github.stanford-ppl/regression-sheets"
	_var = "/usr/local/var/com.github.stanford-ppl/regression-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
