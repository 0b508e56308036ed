package server

// clientScript connects the browser page to its session. It forwards
// input and click events for elements carrying ListenAttr and applies
// patch messages by reference.
const clientScript = `(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/_vbind/ws");
  var seq = 0;

  function byRef(ref) {
    return document.querySelector('[data-vb-ref="' + ref + '"]');
  }

  function setOwnText(node, value) {
    var first = null;
    for (var c = node.firstChild; c; ) {
      var next = c.nextSibling;
      if (c.nodeType === 3) {
        if (first) node.removeChild(c); else first = c;
      }
      c = next;
    }
    if (first) first.nodeValue = value;
    else node.appendChild(document.createTextNode(value));
  }

  function setTextNode(node, index, value) {
    for (var c = node.firstChild; c; c = c.nextSibling) {
      if (c.nodeType !== 3) continue;
      if (index === 0) { c.nodeValue = value; return; }
      index--;
    }
  }

  function apply(p) {
    var node = byRef(p.ref);
    if (!node) return;
    if (p.prop.indexOf("innerText#") === 0) {
      setTextNode(node, parseInt(p.prop.slice(10), 10), p.value);
    } else if (p.prop === "value") {
      if (node.value !== p.value) node.value = p.value;
    } else if (p.prop === "innerText" || p.prop === "textContent") {
      setOwnText(node, p.value);
    } else {
      node.setAttribute(p.prop, p.value);
    }
  }

  function send(msg) {
    if (ws.readyState === 1) ws.send(JSON.stringify(msg));
  }

  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    switch (msg.type) {
      case "patch":
        if (msg.seq > seq + 1) { send({ type: "resync", after: seq }); return; }
        seq = msg.seq;
        (msg.patches || []).forEach(apply);
        break;
      case "reload":
        location.reload();
        break;
      case "error":
        console.warn("vbind:", msg.message);
        break;
    }
  };

  function listener(event) {
    return function (e) {
      var node = e.target.closest && e.target.closest('[data-vb-on~="' + event + '"]');
      if (!node) return;
      var msg = { type: event, ref: node.getAttribute("data-vb-ref") };
      if (event === "input") msg.value = node.value;
      send(msg);
    };
  }

  document.addEventListener("input", listener("input"), true);
  document.addEventListener("click", listener("click"), true);
  setInterval(function () { send({ type: "ping" }); }, 25000);
})();`
