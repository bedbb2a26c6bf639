package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable injects a read-only global "platform" table describing
// the host into L. Call it before running any user configuration.
//
// Besides plain fields (os, arch, libc, distro) the table carries boolean
// shortcuts and a when(cond, value) helper so configs can write
//
//	cookies_from_browser = platform.when(platform.is_macos, "safari") or "firefox"
func InjectPlatformTable(L *lua.LState, info *Info) error {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "arch_raw", lua.LString(info.ArchRaw))

	L.SetField(t, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(t, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(t, "is_windows", lua.LBool(info.IsWindows()))
	L.SetField(t, "is_amd64", lua.LBool(info.Arch == "amd64"))
	L.SetField(t, "is_arm64", lua.LBool(info.Arch == "arm64"))
	L.SetField(t, "is_musl", lua.LBool(info.IsMusl()))

	if info.Libc != "" {
		L.SetField(t, "libc", lua.LString(info.Libc))
	} else {
		L.SetField(t, "libc", lua.LNil)
	}

	if distro := info.GetDistro(); distro != nil {
		d := L.NewTable()
		L.SetField(d, "id", lua.LString(distro.ID))
		L.SetField(d, "family", lua.LString(distro.Family))
		L.SetField(d, "version", lua.LString(distro.Version))
		L.SetField(t, "distro", d)
	} else {
		L.SetField(t, "distro", lua.LNil)
	}

	// when(condition, value) returns value if condition is true, nil otherwise
	L.SetField(t, "when", L.NewFunction(func(L *lua.LState) int {
		if L.CheckBool(1) {
			L.Push(L.Get(2))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	L.SetGlobal("platform", makeReadOnly(L, t))
	return nil
}

// makeReadOnly returns an empty proxy whose metatable redirects reads to
// table and rejects every write.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
