package regtext

const (
	// RegFileHeader is the required first line of a version 5.00 .reg file.
	RegFileHeader = "Windows Registry Editor Version 5.00"

	KeyOpenBracket     = "["
	KeyCloseBracket    = "]"
	DeleteKeyPrefix    = "-"
	ValueAssignment    = "="
	DefaultValuePrefix = "@="
	CommentPrefix      = ";"
	DeleteValueToken   = "-"

	Quote            = "\""
	Backslash        = "\\"
	EscapedQuote     = "\\\""
	EscapedBackslash = "\\\\"

	CRLF = "\r\n"
	CR   = "\r"

	DWORDPrefix   = "dword:"
	HexPrefix     = "hex:"
	HexTypeFormat = "hex(%x):"

	HexByteSeparator = ","
	HexByteFormat    = "%02x"
	DWORDHexFormat   = "%08x"
	DWORDHexLength   = 8

	// HexLineWidth is where regedit wraps long hex payloads.
	HexLineWidth = 80
	// HexContinuationIndent prefixes wrapped hex lines.
	HexContinuationIndent = "  "

	EncodingUTF8    = "UTF-8"
	EncodingUTF16LE = "UTF-16LE"

	// HKEYCurrentUser is the root every store path is relative to.
	HKEYCurrentUser      = "HKEY_CURRENT_USER"
	HKEYCurrentUserShort = "HKCU"

	ScannerInitialBufferSize = 64 * 1024
	ScannerMaxLineSize       = 16 * 1024 * 1024
)
