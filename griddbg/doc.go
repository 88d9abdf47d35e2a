/*
Package griddbg implements helpers to debug a row tree.

Dump prints the whole node table, DumpVisible the rows a grid engine
currently displays. Both render with github.com/xlab/treeprint.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package griddbg
