// Package libvirt manages the connection to the local libvirt daemon.
//
// This package wraps github.com/digitalocean/go-libvirt to provide
// connection management (connect, disconnect, ping, version) over the
// local Unix socket. Template compilation itself never touches it;
// only operations that need live backend facts connect:
//
//	client, err := libvirt.Connect("", 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	gw := storage.NewGateway(client.Libvirt())
//
// Consumer-Side Interfaces:
//
// This package does not define interfaces. Consumers such as
// internal/storage declare their own LibvirtClient interfaces listing
// only the operations they need; *libvirt.Libvirt satisfies them
// implicitly, which keeps tests free of a real daemon.
package libvirt
