package pyenv

// stdlibModules is the set of top-level standard-library and builtin module
// names, per sys.stdlib_module_names of a current CPython. Dead batteries
// removed in 3.13 are kept so older codebases still classify correctly.
var stdlibModules = map[string]struct{}{
	"__future__": {}, "_thread": {}, "abc": {}, "aifc": {}, "argparse": {},
	"array": {}, "ast": {}, "asyncio": {}, "atexit": {}, "audioop": {},
	"base64": {}, "bdb": {}, "binascii": {}, "bisect": {}, "builtins": {},
	"bz2": {}, "calendar": {}, "cgi": {}, "cgitb": {}, "chunk": {},
	"cmath": {}, "cmd": {}, "code": {}, "codecs": {}, "codeop": {},
	"collections": {}, "colorsys": {}, "compileall": {}, "concurrent": {},
	"configparser": {}, "contextlib": {}, "contextvars": {}, "copy": {},
	"copyreg": {}, "cProfile": {}, "crypt": {}, "csv": {}, "ctypes": {},
	"curses": {}, "dataclasses": {}, "datetime": {}, "dbm": {},
	"decimal": {}, "difflib": {}, "dis": {}, "doctest": {}, "email": {},
	"encodings": {}, "ensurepip": {}, "enum": {}, "errno": {},
	"faulthandler": {}, "fcntl": {}, "filecmp": {}, "fileinput": {},
	"fnmatch": {}, "fractions": {}, "ftplib": {}, "functools": {},
	"gc": {}, "getopt": {}, "getpass": {}, "gettext": {}, "glob": {},
	"graphlib": {}, "grp": {}, "gzip": {}, "hashlib": {}, "heapq": {},
	"hmac": {}, "html": {}, "http": {}, "idlelib": {}, "imaplib": {},
	"imghdr": {}, "importlib": {}, "inspect": {}, "io": {},
	"ipaddress": {}, "itertools": {}, "json": {}, "keyword": {},
	"linecache": {}, "locale": {}, "logging": {}, "lzma": {},
	"mailbox": {}, "mailcap": {}, "marshal": {}, "math": {},
	"mimetypes": {}, "mmap": {}, "modulefinder": {}, "msvcrt": {},
	"multiprocessing": {}, "netrc": {}, "nntplib": {}, "ntpath": {},
	"numbers": {}, "operator": {}, "optparse": {}, "os": {},
	"ossaudiodev": {}, "pathlib": {}, "pdb": {}, "pickle": {},
	"pickletools": {}, "pipes": {}, "pkgutil": {}, "platform": {},
	"plistlib": {}, "poplib": {}, "posix": {}, "posixpath": {},
	"pprint": {}, "profile": {}, "pstats": {}, "pty": {}, "pwd": {},
	"py_compile": {}, "pyclbr": {}, "pydoc": {}, "queue": {},
	"quopri": {}, "random": {}, "re": {}, "readline": {}, "reprlib": {},
	"resource": {}, "rlcompleter": {}, "runpy": {}, "sched": {},
	"secrets": {}, "select": {}, "selectors": {}, "shelve": {},
	"shlex": {}, "shutil": {}, "signal": {}, "site": {}, "smtplib": {},
	"sndhdr": {}, "socket": {}, "socketserver": {}, "spwd": {},
	"sqlite3": {}, "ssl": {}, "stat": {}, "statistics": {},
	"string": {}, "stringprep": {}, "struct": {}, "subprocess": {},
	"sunau": {}, "symtable": {}, "sys": {}, "sysconfig": {},
	"syslog": {}, "tabnanny": {}, "tarfile": {}, "telnetlib": {},
	"tempfile": {}, "termios": {}, "test": {}, "textwrap": {},
	"threading": {}, "time": {}, "timeit": {}, "tkinter": {},
	"token": {}, "tokenize": {}, "tomllib": {}, "trace": {},
	"traceback": {}, "tracemalloc": {}, "tty": {}, "turtle": {},
	"turtledemo": {}, "types": {}, "typing": {}, "unicodedata": {},
	"unittest": {}, "urllib": {}, "uu": {}, "uuid": {}, "venv": {},
	"warnings": {}, "wave": {}, "weakref": {}, "webbrowser": {},
	"winreg": {}, "winsound": {}, "wsgiref": {}, "xdrlib": {},
	"xml": {}, "xmlrpc": {}, "zipapp": {}, "zipfile": {},
	"zipimport": {}, "zlib": {}, "zoneinfo": {},
}

// IsStdlib reports whether module is a standard-library or builtin module
// name. Only the root segment of a dotted module path is meaningful here.
func IsStdlib(module string) bool {
	_, ok := stdlibModules[module]
	return ok
}
